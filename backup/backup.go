// Package backup snapshots and restores the full store as JSON keyed by
// collection name. A snapshot followed by a restore reproduces identical
// documents, ids included.
package backup

import (
	"gorm.io/gorm"

	"github.com/studyplanner/StudyPlannerBackend/models"
)

type Archive struct {
	Users        []models.User        `json:"users"`
	Goals        []models.Goal        `json:"goals"`
	Notes        []models.Note        `json:"notes"`
	Diaries      []models.Diary       `json:"diaries"`
	StudyRecords []models.StudyRecord `json:"study_records"`
	BookRecords  []models.BookRecord  `json:"book_records"`
}

// Snapshot reads every collection into one archive.
func Snapshot(db *gorm.DB) (Archive, error) {
	var a Archive

	if err := db.Order("id ASC").Find(&a.Users).Error; err != nil {
		return a, err
	}
	if err := db.Order("id ASC").Find(&a.Goals).Error; err != nil {
		return a, err
	}
	if err := db.Order("id ASC").Find(&a.Notes).Error; err != nil {
		return a, err
	}
	if err := db.Order("id ASC").Find(&a.Diaries).Error; err != nil {
		return a, err
	}
	if err := db.Order("id ASC").Find(&a.StudyRecords).Error; err != nil {
		return a, err
	}
	if err := db.Order("id ASC").Find(&a.BookRecords).Error; err != nil {
		return a, err
	}

	return a, nil
}

// Restore wipes every collection and reinserts the archive in one
// transaction, so a failed restore leaves the store untouched.
func Restore(db *gorm.DB, a Archive) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.BookRecord{},
			&models.StudyRecord{},
			&models.Diary{},
			&models.Note{},
			&models.Goal{},
			&models.User{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		if len(a.Users) > 0 {
			if err := tx.Create(&a.Users).Error; err != nil {
				return err
			}
		}
		if len(a.Goals) > 0 {
			if err := tx.Create(&a.Goals).Error; err != nil {
				return err
			}
		}
		if len(a.Notes) > 0 {
			if err := tx.Create(&a.Notes).Error; err != nil {
				return err
			}
		}
		if len(a.Diaries) > 0 {
			if err := tx.Create(&a.Diaries).Error; err != nil {
				return err
			}
		}
		if len(a.StudyRecords) > 0 {
			if err := tx.Create(&a.StudyRecords).Error; err != nil {
				return err
			}
		}
		if len(a.BookRecords) > 0 {
			if err := tx.Create(&a.BookRecords).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
