package validators

import "go.mongodb.org/mongo-driver/bson"

var PlayerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"display_name", "email", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":          bson.M{"bsonType": "string"},
			"display_name": bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"email":        bson.M{"bsonType": "string", "maxLength": 254},
			"phone":        bson.M{"bsonType": "string", "pattern": `^\+[1-9][0-9]{1,14}$`},
			"handicap":     bson.M{"bsonType": []string{"double", "int"}, "minimum": -10, "maximum": 54},
			"created_at":   bson.M{"bsonType": "date"},
		},
	},
}
