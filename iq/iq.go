// Package iq provides helpers for complex64 IQ sample frames.
//
// The native extension exchanges IQ as interleaved little-endian float32
// pairs in linear memory; legacy receivers deliver separate int16 I and Q
// frames. Both convert to the complex64 frames the blocks work in.
package iq

import (
	"encoding/binary"
	"math"
)

// FromInterleavedF32LE decodes interleaved little-endian float32 I/Q pairs
// into dst and returns the number of samples decoded.
func FromInterleavedF32LE(dst []complex64, raw []byte) int {
	n := len(raw) / 8
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		re := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*8:]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*8+4:]))
		dst[i] = complex(re, im)
	}
	return n
}

// AppendInterleavedF32LE appends src as interleaved little-endian float32
// I/Q pairs.
func AppendInterleavedF32LE(dst []byte, src []complex64) []byte {
	for _, s := range src {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(real(s)))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(imag(s)))
	}
	return dst
}

// FromInt16 converts separate full-scale int16 I and Q frames into dst,
// normalized to [-1, 1). Returns the number of samples converted.
func FromInt16(dst []complex64, i, q []int16) int {
	n := len(i)
	if len(q) < n {
		n = len(q)
	}
	if len(dst) < n {
		n = len(dst)
	}
	const scale = 1.0 / 32768.0
	for k := 0; k < n; k++ {
		dst[k] = complex(float32(i[k])*scale, float32(q[k])*scale)
	}
	return n
}

// PowerDBFS returns the mean power of the frame in dB relative to full scale.
// An empty or silent frame reports -200 dBFS.
func PowerDBFS(samples []complex64) float64 {
	if len(samples) == 0 {
		return -200
	}
	var acc float64
	for _, s := range samples {
		re := float64(real(s))
		im := float64(imag(s))
		acc += re*re + im*im
	}
	mean := acc / float64(len(samples))
	if mean <= 0 {
		return -200
	}
	return 10 * math.Log10(mean)
}

// Peak returns the largest sample magnitude in the frame.
func Peak(samples []complex64) float64 {
	var peak float64
	for _, s := range samples {
		re := float64(real(s))
		im := float64(imag(s))
		if m := math.Sqrt(re*re + im*im); m > peak {
			peak = m
		}
	}
	return peak
}
