package models

// Application represents one applicant's application to a programme.
// The (user_id, program_level, program_name) triple is unique: an applicant
// cannot open two applications to the same programme.
type Application struct {
	ID            uint   `gorm:"primarykey;column:id" json:"id"`
	UserID        uint   `gorm:"column:user_id;not null;uniqueIndex:idx_user_level_programme" json:"userId"`
	ProgramLevel  Level  `gorm:"column:program_level;not null;uniqueIndex:idx_user_level_programme" json:"programLevel"`
	ProgramName   string `gorm:"column:program_name;not null;uniqueIndex:idx_user_level_programme" json:"programName"`
	Status        Status `gorm:"column:status;not null;default:'In Progress'" json:"status"`
	User          *User  `gorm:"foreignKey:UserID" json:"-"`
	BaseModel
}

// TableName sets the table name for GORM
func (Application) TableName() string {
	return "applications"
}

// Document represents one uploaded file attached to an application.
// Multiple documents of the same type may coexist; completeness counts
// distinct types, not rows.
type Document struct {
	ID               uint    `gorm:"primarykey;column:id" json:"id"`
	ApplicationID    uint    `gorm:"column:application_id;not null;index" json:"applicationId"`
	DocType          DocType `gorm:"column:doc_type;not null" json:"docType"`
	OriginalFilename string  `gorm:"column:original_filename;not null" json:"originalFilename"`
	StorageRef       string  `gorm:"column:storage_ref;not null" json:"-"`
	BaseModel
}

// TableName sets the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// Decision is one append-only reviewer decision row. Rows are never updated
// or deleted; the newest row per application is what the applicant sees.
type Decision struct {
	ID            uint   `gorm:"primarykey;column:id" json:"id"`
	ApplicationID uint   `gorm:"column:application_id;not null;index" json:"applicationId"`
	ReviewerID    uint   `gorm:"column:reviewer_id;not null" json:"reviewerId"`
	NewStatus     Status `gorm:"column:new_status;not null" json:"newStatus"`
	Note          string `gorm:"column:note" json:"note"`
	BaseModel
}

// TableName sets the table name for GORM
func (Decision) TableName() string {
	return "application_decisions"
}
