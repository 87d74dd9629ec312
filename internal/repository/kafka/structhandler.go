package kafka

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// StructHandler decodes a structpb.Struct message and hands its JSON form to
// decode, so handlers work with plain domain types.
func StructHandler[T any](decode func([]byte, *T) error, handle func(context.Context, []byte, *T) error) Handler {
	return func(ctx context.Context, key, value []byte) error {
		var s structpb.Struct
		if err := proto.Unmarshal(value, &s); err != nil {
			return fmt.Errorf("unmarshal struct: %w", err)
		}
		raw, err := protojson.Marshal(&s)
		if err != nil {
			return fmt.Errorf("struct to json: %w", err)
		}
		var m T
		if err := decode(raw, &m); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return handle(ctx, key, &m)
	}
}

// toStruct converts an arbitrary JSON document into a structpb.Struct.
func toStruct(raw []byte) (*structpb.Struct, error) {
	var s structpb.Struct
	if err := protojson.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
