package schema

import (
	"fmt"

	"github.com/hamba/avro/v2"
)

// An avroCodec binds values to one parsed Avro schema.
type avroCodec struct {
	schema avro.Schema
}

func newAvroCodec(text string) (avroCodec, error) {
	s, err := avro.Parse(text)
	if err != nil {
		return avroCodec{}, fmt.Errorf("invalid avro schema: %w", err)
	}
	return avroCodec{s}, nil
}

func (c avroCodec) encode(v any) ([]byte, error) {
	return avro.Marshal(c.schema, v)
}

func (c avroCodec) decode(data []byte, v any) error {
	return avro.Unmarshal(c.schema, data, v)
}
