package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type Course struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Students []string           `bson:"students" json:"students"`
}

type Problem struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	CourseID primitive.ObjectID `bson:"courseId" json:"courseId"`
	Title    string             `bson:"title" json:"title"`
	IsOJ     bool               `bson:"isOJ" json:"isOJ"`
}
