// Package endian provides byte order utilities for binary log decoding.
//
// The ulog wire format is little-endian throughout: multi-byte headers,
// message payloads and sample fields are all encoded least significant byte
// first. This package extends Go's standard encoding/binary package by
// combining the ByteOrder and AppendByteOrder interfaces into a unified
// EndianEngine interface, and adds a native byte order probe so decoders can
// select unsafe reinterpretation fast paths on matching hosts.
//
// # Basic Usage
//
// Decoders take the little-endian engine once and thread it through:
//
//	import "github.com/ulogkit/ulog/endian"
//
//	engine := endian.GetLittleEndianEngine()
//	size := engine.Uint16(buf[0:2])
//
// # Native Fast Paths
//
// On little-endian hosts (amd64, arm64, ...) a decoder may reinterpret wire
// bytes in place instead of assembling values byte by byte:
//
//	if endian.CompareNativeEndian(engine) {
//	    // pointer punning is safe, wire order == host order
//	}
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned
// EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library, making it fully compatible with existing Go code while
// providing access to both read/write and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	// Inspect the byte at the lowest memory address.
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host stores integers least
// significant byte first, i.e. in the same order as the ulog wire format.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// IsNativeBigEndian reports whether the host stores integers most significant
// byte first.
func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// CompareNativeEndian reports whether the given engine matches the host byte
// order. Decoders use this once per decode to decide between unsafe
// reinterpretation and explicit byte assembly.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine, the byte order of
// the ulog wire format.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine. It exists for tests and
// for tooling that needs to compare against the wire order.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
