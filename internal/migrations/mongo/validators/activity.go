package validators

import "go.mongodb.org/mongo-driver/bson"

var ActivityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"min_participants",
			"max_participants",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"min_participants": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  500,
			},

			"max_participants": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  500,
			},

			"daily_schedules": bson.M{
				"bsonType": "array",
				"maxItems": 7,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"day_of_week", "time_slots"},
					"properties": bson.M{
						"day_of_week": bson.M{
							"bsonType": "int",
							"minimum":  0,
							"maximum":  6,
						},
						"time_slots": bson.M{
							"bsonType": "array",
							"minItems": 1,
							"items": bson.M{
								"bsonType": "object",
								"required": []string{"start_time", "end_time"},
								"properties": bson.M{
									"start_time": bson.M{
										"bsonType": "string",
										"pattern":  "^([01]?[0-9]|2[0-3]):[0-5][0-9]$",
									},
									"end_time": bson.M{
										"bsonType": "string",
										"pattern":  "^([01]?[0-9]|2[0-3]):[0-5][0-9]$",
									},
									"max_capacity": bson.M{
										"bsonType": "int",
										"minimum":  0,
										"maximum":  500,
									},
									"is_available": bson.M{
										"bsonType": "bool",
									},
								},
							},
						},
					},
				},
			},

			"unavailable_dates": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
					"pattern":  "^\\d{4}-\\d{2}-\\d{2}$",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
