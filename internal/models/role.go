package models

// Role is a front-office role. Pages tagged with an existing role are not public.
type Role struct {
	Key         string `gorm:"column:role;primaryKey;type:varchar(50)" json:"key"`
	Description string `gorm:"column:role_description;type:varchar(255)" json:"description"`
}

func (Role) TableName() string { return "core_role" }
