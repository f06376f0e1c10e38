package schema

import "time"

const FavoriteEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "favorites",
	"name": "favorite_event",
	"fields" : [
		{"name": "product_id", "type": "long"},
		{"name": "favorite", "type": "boolean"},
		{
			"name": "toggled_at",
			"type": {"type": "long", "logicalType": "timestamp-millis"}
		}
	]
}`

type FavoriteEventV1 struct {
	ProductID int64     `avro:"product_id"`
	Favorite  bool      `avro:"favorite"`
	ToggledAt time.Time `avro:"toggled_at"`
}
