package model

type Testimonial struct {
	Base
	Name     string `json:"name" db:"name"`
	JobTitle string `json:"jobTitle" db:"job_title"`
	Text     string `json:"text" db:"text"`
	Rating   int    `json:"rating" db:"rating"`
}

type TestimonialRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	JobTitle string `json:"jobTitle" binding:"required"`
	Text     string `json:"text" binding:"required,min=10"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
}
