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


package legacy

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// DocumentMUS serializes Document in the legacy wire format. The format is
// frozen: field order and encodings match what the old tooling wrote, so
// this serializer is maintained by hand rather than generated. Do not
// reorder fields.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (s documentMUS) Marshal(doc Document, bs []byte) (n int) {
	n = varint.Uint64.Marshal(doc.Id, bs)
	n += ord.String.Marshal(doc.Text, bs[n:])
	n += ord.String.Marshal(doc.Meta, bs[n:])
	n += ord.String.Marshal(doc.CreatedAt, bs[n:])
	n += varint.Uint64.Marshal(doc.Digest, bs[n:])
	return n
}

func (s documentMUS) Unmarshal(bs []byte) (doc Document, n int, err error) {
	doc.Id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	doc.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	doc.Meta, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	doc.CreatedAt, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	doc.Digest, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	return
}

func (s documentMUS) Size(doc Document) (size int) {
	size = varint.Uint64.Size(doc.Id)
	size += ord.String.Size(doc.Text)
	size += ord.String.Size(doc.Meta)
	size += ord.String.Size(doc.CreatedAt)
	size += varint.Uint64.Size(doc.Digest)
	return size
}

func (s documentMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Uint64.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	for i := 0; i < 3; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Uint64.Skip(bs[n:])
	n += n1
	return
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *Document) []byte {
	buf := make([]byte, DocumentMUS.Size(*doc))
	DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*Document, error) {
	doc, _, err := DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &doc, nil
}
