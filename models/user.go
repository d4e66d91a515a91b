package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const USERS_COLLECTION = "users"

// Notification categories a user can subscribe to
const (
	PREF_ADMISSIONS   = "admissions"
	PREF_INTERNSHIPS  = "internships"
	PREF_SCHOLARSHIPS = "scholarships"
	PREF_RESULTS      = "results"
	PREF_ADMIT_CARDS  = "admit_cards"
	PREF_IT_JOBS      = "it_jobs"
	PREF_NON_IT_JOBS  = "non_it_jobs"
	PREF_GOVT_JOBS    = "govt_jobs"
)

var NotificationCategories = []string{
	PREF_ADMISSIONS,
	PREF_INTERNSHIPS,
	PREF_SCHOLARSHIPS,
	PREF_RESULTS,
	PREF_ADMIT_CARDS,
	PREF_IT_JOBS,
	PREF_NON_IT_JOBS,
	PREF_GOVT_JOBS,
}

var GovtJobTypes = []string{"central", "state", "psu", "defence", "banking", "railway"}

const (
	TECH_IT     = "IT"
	TECH_NON_IT = "NON-IT"
)

type Preferences struct {
	NotificationsAbout string `json:"notifications_about" bson:"notifications_about"`
	GovtJobType        string `json:"govt_job_type,omitempty" bson:"govt_job_type,omitempty"`
	TechCategory       string `json:"tech_category,omitempty" bson:"tech_category,omitempty"`
	IsStudying         bool   `json:"isStudying" bson:"isStudying"`
	EducationLevel     string `json:"educationLevel,omitempty" bson:"educationLevel,omitempty"`
}

type User struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"-" bson:"password"`
	IsVerified  bool               `json:"is_verified" bson:"is_verified"`
	Preferences *Preferences       `json:"preferences,omitempty" bson:"preferences,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

func NewModelUser(name, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Name:       name,
		Email:      email,
		Password:   passwordHash,
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func usersSchema() map[string]interface{} {
	return map[string]interface{}{
		"bsonType": "object",
		"required": []string{"name", "email", "password", "created_at"},
		"properties": map[string]interface{}{
			"name":        map[string]interface{}{"bsonType": "string", "maxLength": 100},
			"email":       map[string]interface{}{"bsonType": "string"},
			"password":    map[string]interface{}{"bsonType": "string"},
			"is_verified": map[string]interface{}{"bsonType": "bool"},
			"created_at":  map[string]interface{}{"bsonType": "date"},
			"updated_at":  map[string]interface{}{"bsonType": "date"},
			"preferences": map[string]interface{}{
				"bsonType": "object",
				"properties": map[string]interface{}{
					"notifications_about": map[string]interface{}{"enum": NotificationCategories},
				},
			},
		},
	}
}
