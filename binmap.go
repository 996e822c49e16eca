// Package binmap maps binary data onto declarative field trees. Leaves
// (package field) decode and encode fixed-width cells at bit positions,
// containers (package container) order members and carry positions through a
// traversal, pointers (package pointer) follow addresses into a byte source
// (package provider), and package export renders decoded trees for humans.
//
// This package re-exports the common surface so simple mappers need a single
// import.
package binmap

import (
	"github.com/bytetools/binmap/container"
	"github.com/bytetools/binmap/field"
	"github.com/bytetools/binmap/pointer"
	"github.com/bytetools/binmap/provider"
)

// Index tracks the position of a field during a traversal.
type Index = field.Index

// Alignment places a sub-byte field inside a multi-byte group cell.
type Alignment = field.Alignment

// ByteOrder selects how multi-byte cells are laid out on the wire.
type ByteOrder = field.ByteOrder

const (
	Auto         = field.Auto
	LittleEndian = field.LittleEndian
	BigEndian    = field.BigEndian
)

// Options carries traversal-wide settings.
type Options = field.Options

var (
	NewOptions      = field.NewOptions
	WithByteOrder   = field.WithByteOrder
	WithNullAllowed = field.WithNullAllowed
	WithNested      = field.WithNested
	WithLogger      = field.WithLogger
)

// Leaf is the contract every terminal field satisfies.
type Leaf = field.Leaf

// Member is anything a container can hold.
type Member = container.Member

type (
	Structure = container.Structure
	Sequence  = container.Sequence
	Array     = container.Array
	Pointer   = pointer.Pointer
	Provider  = provider.Provider
)

var (
	NewStructure = container.NewStructure
	NewSequence  = container.NewSequence
	NewArray     = container.NewArray
	SizedBy      = container.SizedBy
	NewPointer   = pointer.New
	NewRelative  = pointer.NewRelative
)

var (
	NewBool     = field.NewBool
	NewUnsigned = field.NewUnsigned
	NewSigned   = field.NewSigned
	NewFloat32  = field.NewFloat32
	NewFloat64  = field.NewFloat64
	NewBytes    = field.NewBytes
	NewString   = field.NewString
	NewEnum     = field.NewEnum
	NewBitset   = field.NewBitset
	NewScaled   = field.NewScaled
	NewDatetime = field.NewDatetime
)
