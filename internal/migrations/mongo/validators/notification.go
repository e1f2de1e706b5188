package validators

import "go.mongodb.org/mongo-driver/bson"

var NotificationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"recipient_id",
			"sender_id",
			"reservation_id",
			"message",
			"status",
			"created_at",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":            bson.M{"bsonType": "objectId"},
			"recipient_id":   bson.M{"bsonType": "string", "minLength": 1},
			"sender_id":      bson.M{"bsonType": "string", "minLength": 1},
			"reservation_id": bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"message":        bson.M{"bsonType": "string"},
			"status": bson.M{
				"enum": []string{"pending", "accepted", "declined"},
			},
			"created_at":   bson.M{"bsonType": "date"},
			"responded_at": bson.M{"bsonType": "date"},
			"delivered_at": bson.M{"bsonType": "date"},
		},
	},
}
