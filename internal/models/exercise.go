package models

// Exercise - упражнение каталога. Enabled=false означает мягкое удаление
type Exercise struct {
	BaseModel
	Name             string `gorm:"size:150;not null;index"`
	MainMuscle       string `gorm:"size:100;not null"`
	SecondaryMuscle  string `gorm:"size:100"`
	Description      string `gorm:"type:text"`
	RequireEquipment bool   `gorm:"not null;default:false"`
	VideoURL         string
	IsCustom         bool `gorm:"not null;default:false"`
	Enabled          bool `gorm:"not null;default:true"`

	Images []ExerciseImage `gorm:"foreignKey:ExerciseID"`
}

type ExerciseImage struct {
	BaseModel
	ExerciseID string `gorm:"type:varchar(36);index;not null"`
	URL        string `gorm:"not null"`
	StorageKey string
}

// ImageURLs - в порядке хранения
func (e *Exercise) ImageURLs() []string {
	urls := make([]string, 0, len(e.Images))
	for _, img := range e.Images {
		urls = append(urls, img.URL)
	}
	return urls
}
