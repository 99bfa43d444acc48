package models

import (
	"time"
)

// Job mirrors the catalog's jobs table. Only the columns used for scoring are mapped.
type Job struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	NameJob     string    `gorm:"type:text;not null" json:"nameJob"`
	CompanyName string    `gorm:"type:text" json:"companyName"`
	Request     string    `gorm:"type:text" json:"request"`
	Description string    `gorm:"type:text" json:"desc"`
	Experience  string    `gorm:"type:text" json:"experience,omitempty"`
	Education   string    `gorm:"type:text" json:"education,omitempty"`
	TypeWork    string    `gorm:"type:text" json:"typeWork,omitempty"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Job) TableName() string {
	return "jobs"
}

func (j *Job) Requirement() *JobRequirement {
	return &JobRequirement{
		ID:              j.ID,
		Title:           j.NameJob,
		CompanyName:     j.CompanyName,
		RequirementText: j.Request,
		Description:     j.Description,
		ExperienceLevel: j.Experience,
		EducationLevel:  j.Education,
		WorkType:        j.TypeWork,
	}
}

// JobRequirement is the read-only job data the scorer compares a résumé against.
type JobRequirement struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	CompanyName     string `json:"companyName,omitempty"`
	RequirementText string `json:"requirementText"`
	Description     string `json:"description"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
	EducationLevel  string `json:"educationLevel,omitempty"`
	WorkType        string `json:"workType,omitempty"`
}
