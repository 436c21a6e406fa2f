// Package blocks provides IQ-streaming sync blocks over Signal Hound
// devices.
//
// SPSeries, SMSeries and BBSeries are sources: each Work call fills the
// caller's frame with consecutive IQ samples from an opened analyzer.
// VSGSeries is a sink submitting frames to a generator.
//
// Parameter setters may be called from any goroutine while the block is
// streaming; the new configuration is applied by the next Work call, which
// reconfigures the device before touching samples. SetPurge is the one
// exception and takes effect without a reconfigure, matching the hardware
// behavior of only flushing the IQ buffer.
package blocks
