// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package image

import (
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes"
	"github.com/golang/protobuf/ptypes/struct"
	"github.com/pkg/errors"
)

// Manifest describes how an image was built.
//
// It is stored between the header and the payload as a serialized protobuf
// Struct, so readers can inspect it without knowing the payload layout.
type Manifest struct {
	// Frames is the number of animation frames.
	Frames int
	// FrameLen is the length of each frame, in bytes.
	FrameLen int

	// Dialects names the source dialects emitted alongside the image.
	Dialects []string
	// Generator identifies the tool that built the image.
	Generator string

	// Created is when the image was built. If zero, it is not recorded.
	Created time.Time
}

// Manifest field names.
const (
	manifestFrames    = "frames"
	manifestFrameLen  = "frame_len"
	manifestDialects  = "dialects"
	manifestGenerator = "generator"
	manifestCreated   = "created"
)

func numberValue(v float64) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: v}}
}

func stringValue(v string) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: v}}
}

func (m *Manifest) marshal() ([]byte, error) {
	dialects := make([]*structpb.Value, len(m.Dialects))
	for i, d := range m.Dialects {
		dialects[i] = stringValue(d)
	}

	st := structpb.Struct{
		Fields: map[string]*structpb.Value{
			manifestFrames:   numberValue(float64(m.Frames)),
			manifestFrameLen: numberValue(float64(m.FrameLen)),
			manifestDialects: {Kind: &structpb.Value_ListValue{
				ListValue: &structpb.ListValue{Values: dialects},
			}},
			manifestGenerator: stringValue(m.Generator),
		},
	}

	if !m.Created.IsZero() {
		ts, err := ptypes.TimestampProto(m.Created)
		if err != nil {
			return nil, errors.Wrap(err, "encoding creation time")
		}
		st.Fields[manifestCreated] = stringValue(ptypes.TimestampString(ts))
	}

	data, err := proto.Marshal(&st)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling manifest")
	}
	return data, nil
}

func unmarshalManifest(data []byte) (*Manifest, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return nil, errors.Wrap(err, "unmarshalling manifest")
	}

	var m Manifest
	for name, v := range st.Fields {
		switch name {
		case manifestFrames:
			m.Frames = int(v.GetNumberValue())
		case manifestFrameLen:
			m.FrameLen = int(v.GetNumberValue())
		case manifestGenerator:
			m.Generator = v.GetStringValue()
		case manifestDialects:
			for _, d := range v.GetListValue().GetValues() {
				m.Dialects = append(m.Dialects, d.GetStringValue())
			}
		case manifestCreated:
			created, err := time.Parse(time.RFC3339Nano, v.GetStringValue())
			if err != nil {
				return nil, errors.Wrap(err, "decoding creation time")
			}
			m.Created = created
		}
	}
	return &m, nil
}
