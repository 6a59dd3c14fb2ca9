package wad

import (
	"encoding/binary"

	"github.com/sirupsen/logrus"
)

type readConfig struct {
	limits         Limits
	codec          Codec
	order          binary.ByteOrder
	verifyHashes   bool
	typedResources bool
	theme          Theme
	log            logrus.FieldLogger
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithCodec sets the codec used to detect and unpack compressed payloads.
func WithCodec(codec Codec) ReadOption {
	return func(c *readConfig) { c.codec = codec }
}

func WithByteOrder(order binary.ByteOrder) ReadOption {
	return func(c *readConfig) { c.order = order }
}

// WithVerifyHashes makes Decode pass every unpacked payload to the registry's
// VerifyHash, if it has one. Mismatches are logged, never returned.
func WithVerifyHashes(v bool) ReadOption {
	return func(c *readConfig) { c.verifyHashes = v }
}

// WithTypedResources(false) decodes every record as an opaque Dummy.
func WithTypedResources(v bool) ReadOption {
	return func(c *readConfig) { c.typedResources = v }
}

// WithTheme sets the archive theme given to maps and mesh objects without a
// theme of their own.
func WithTheme(t Theme) ReadOption {
	return func(c *readConfig) { c.theme = t }
}

func WithLogger(l logrus.FieldLogger) ReadOption {
	return func(c *readConfig) { c.log = l }
}

type writeConfig struct {
	limits Limits
	codec  Codec
	order  binary.ByteOrder
	log    logrus.FieldLogger
}

type WriteOption func(*writeConfig)

func WithWriteLimits(l Limits) WriteOption {
	return func(c *writeConfig) { c.limits = l }
}

// WithWriteCodec sets the codec used to pack entries that were compressed.
func WithWriteCodec(codec Codec) WriteOption {
	return func(c *writeConfig) { c.codec = codec }
}

func WithWriteByteOrder(order binary.ByteOrder) WriteOption {
	return func(c *writeConfig) { c.order = order }
}

func WithWriteLogger(l logrus.FieldLogger) WriteOption {
	return func(c *writeConfig) { c.log = l }
}
