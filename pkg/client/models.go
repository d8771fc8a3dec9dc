package client

import "time"

type Profile struct {
	Bio                string   `json:"bio,omitempty"`
	Skills             []string `json:"skills"`
	Resume             string   `json:"resume,omitempty"`
	ResumeOriginalName string   `json:"resume_original_name,omitempty"`
	ProfilePhoto       string   `json:"profile_photo,omitempty"`
}

type User struct {
	ID          string  `json:"id"`
	Fullname    string  `json:"fullname"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	Role        string  `json:"role"`
	Profile     Profile `json:"profile"`
}

type Company struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	Logo        string `json:"logo"`
	OwnerID     string `json:"owner_id"`
}

type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CompanyID   string    `json:"organization_id"`
	Company     *Company  `json:"organization,omitempty"`
	OwnerID     string    `json:"owner_id"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Salary      int64     `json:"salary"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewJob struct {
	Title       string `json:"title"`
	CompanyID   string `json:"companyId"`
	Location    string `json:"location,omitempty"`
	Type        string `json:"type,omitempty"`
	Category    string `json:"category,omitempty"`
	Salary      int64  `json:"salary"`
	Description string `json:"description,omitempty"`
	Featured    bool   `json:"featured"`
}

type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"posting_id"`
	Job         *Job      `json:"posting,omitempty"`
	ApplicantID string    `json:"applicant_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type Applicant struct {
	Application
	Applicant User `json:"applicant"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type JobPage struct {
	Jobs       []Job      `json:"jobs"`
	Pagination Pagination `json:"pagination"`
}

type Registration struct {
	Fullname    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
}
