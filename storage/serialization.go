// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/enrichit/core"
)

// captureVersion prefixes every encoded capture.
const captureVersion = 1

// MarshalFingerprint serializes a Fingerprint to bytes.
func MarshalFingerprint(fp core.Fingerprint) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(fp)))
	varint.Uint64.Marshal(uint64(fp), buf)
	return buf
}

// UnmarshalFingerprint deserializes a Fingerprint from bytes.
func UnmarshalFingerprint(data []byte) (core.Fingerprint, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: fingerprint: %w", ErrSerializationFailed, err)
	}
	return core.Fingerprint(v), nil
}

// sizeAttribute returns the encoded size of an attribute: known flag, then value.
func sizeAttribute(a core.Attribute) int {
	v, known := a.Value()
	size := ord.Bool.Size(known)
	if known {
		size += ord.String.Size(v)
	}
	return size
}

func marshalAttribute(a core.Attribute, bs []byte) int {
	v, known := a.Value()
	n := ord.Bool.Marshal(known, bs)
	if known {
		n += ord.String.Marshal(v, bs[n:])
	}
	return n
}

func unmarshalAttribute(bs []byte) (core.Attribute, int, error) {
	known, n, err := ord.Bool.Unmarshal(bs)
	if err != nil {
		return core.Attribute{}, n, err
	}
	if !known {
		return core.Unknown(), n, nil
	}
	v, n1, err := ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return core.Attribute{}, n, err
	}
	return core.Known(v), n, nil
}

// MarshalCapture serializes a Capture to bytes.
// Layout: version, fingerprint, complete, captured-at (unix micro), count, attributes.
func MarshalCapture(c *core.Capture) []byte {
	capturedAt := c.CapturedAt.UnixMicro()
	size := varint.Int.Size(captureVersion) +
		varint.Uint64.Size(uint64(c.Fingerprint)) +
		ord.Bool.Size(c.Complete) +
		varint.Int64.Size(capturedAt) +
		varint.Int.Size(len(c.Attributes))
	for _, a := range c.Attributes {
		size += sizeAttribute(a)
	}

	buf := make([]byte, size)
	n := varint.Int.Marshal(captureVersion, buf)
	n += varint.Uint64.Marshal(uint64(c.Fingerprint), buf[n:])
	n += ord.Bool.Marshal(c.Complete, buf[n:])
	n += varint.Int64.Marshal(capturedAt, buf[n:])
	n += varint.Int.Marshal(len(c.Attributes), buf[n:])
	for _, a := range c.Attributes {
		n += marshalAttribute(a, buf[n:])
	}
	return buf
}

// UnmarshalCapture deserializes a Capture from bytes.
func UnmarshalCapture(data []byte) (*core.Capture, error) {
	wrap := func(field string, err error) error {
		return fmt.Errorf("%w: capture %s: %w", ErrSerializationFailed, field, err)
	}

	version, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, wrap("version", err)
	}
	if version != captureVersion {
		return nil, fmt.Errorf("%w: unsupported capture version %d", ErrSerializationFailed, version)
	}

	fp, n1, err := varint.Uint64.Unmarshal(data[n:])
	n += n1
	if err != nil {
		return nil, wrap("fingerprint", err)
	}
	complete, n1, err := ord.Bool.Unmarshal(data[n:])
	n += n1
	if err != nil {
		return nil, wrap("complete flag", err)
	}
	capturedAt, n1, err := varint.Int64.Unmarshal(data[n:])
	n += n1
	if err != nil {
		return nil, wrap("timestamp", err)
	}
	count, n1, err := varint.Int.Unmarshal(data[n:])
	n += n1
	if err != nil {
		return nil, wrap("length", err)
	}
	if count < 0 || count > len(data)-n {
		// Every attribute takes at least one byte.
		return nil, fmt.Errorf("%w: capture length %d", ErrTruncatedData, count)
	}

	attrs := make([]core.Attribute, count)
	for i := range attrs {
		a, n1, err := unmarshalAttribute(data[n:])
		n += n1
		if err != nil {
			return nil, wrap(fmt.Sprintf("attribute %d", i), err)
		}
		attrs[i] = a
	}

	return &core.Capture{
		Fingerprint: core.Fingerprint(fp),
		Attributes:  attrs,
		Complete:    complete,
		CapturedAt:  time.UnixMicro(capturedAt).UTC(),
	}, nil
}
