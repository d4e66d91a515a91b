package forms

import "github.com/CPU-commits/CareerNest/models"

// @Desc govt_job_type is required when notifications_about == govt_jobs.
type PreferencesForm struct {
	NotificationsAbout string `json:"notifications_about" binding:"required,notificationCategory" example:"govt_jobs" enum:"admissions,internships,scholarships,results,admit_cards,it_jobs,non_it_jobs,govt_jobs"`
	GovtJobType        string `json:"govt_job_type" binding:"required_if=NotificationsAbout govt_jobs,govtJobType" example:"central" enum:"central,state,psu,defence,banking,railway"`
	IsStudying         bool   `json:"isStudying" example:"true"`
	EducationLevel     string `json:"educationLevel" binding:"max=60" example:"graduate"`
}

// ToModel keeps only the sub select that belongs to the chosen category and
// derives the tech category from it.
func (p PreferencesForm) ToModel() models.Preferences {
	preferences := models.Preferences{
		NotificationsAbout: p.NotificationsAbout,
		IsStudying:         p.IsStudying,
		EducationLevel:     p.EducationLevel,
	}
	switch p.NotificationsAbout {
	case models.PREF_GOVT_JOBS:
		preferences.GovtJobType = p.GovtJobType
	case models.PREF_IT_JOBS:
		preferences.TechCategory = models.TECH_IT
	case models.PREF_NON_IT_JOBS:
		preferences.TechCategory = models.TECH_NON_IT
	}
	return preferences
}
