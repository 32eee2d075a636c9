package repo

import (
	"github.com/DMX-Projects/time4kids-sub001/internal/shared/models"
)

// DefaultPrograms returns the static program catalogue shown on the
// marketing pages.
func DefaultPrograms() *LocalCollection[models.Program] {
	return NewLocal(models.Program.WithRecordID,
		models.Program{ID: "playgroup", Name: "Playgroup", AgeRange: "1.5 - 2.5 years", Description: "First steps away from home: sensory play, rhymes and free movement."},
		models.Program{ID: "nursery", Name: "Nursery", AgeRange: "2.5 - 3.5 years", Description: "Language, motor skills and social routines through guided play."},
		models.Program{ID: "lkg", Name: "LKG", AgeRange: "3.5 - 4.5 years", Description: "Pre-literacy and numeracy foundations with themed activity corners."},
		models.Program{ID: "ukg", Name: "UKG", AgeRange: "4.5 - 5.5 years", Description: "School readiness: reading, writing, numbers and presentation."},
		models.Program{ID: "daycare", Name: "Daycare", AgeRange: "1.5 - 10 years", Description: "Extended-hours care with meals, naps and homework support."},
	)
}
