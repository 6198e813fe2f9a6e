package diagram

import (
	"errors"

	"umlforge/internal/models"
)

var ErrSelfAssociation = errors.New("association endpoints must be different classes")

// RemoveClass deletes a class and cascades removal of every association that
// references it on either end. Removing an absent id is a no-op.
func RemoveClass(data models.DiagramData, classID string) models.DiagramData {
	classes := make([]models.UMLClass, 0, len(data.Classes))
	for _, c := range data.Classes {
		if c.ID != classID {
			classes = append(classes, c)
		}
	}

	associations := make([]models.Association, 0, len(data.Associations))
	for _, a := range data.Associations {
		if a.FromClassID == classID || a.ToClassID == classID {
			continue
		}
		associations = append(associations, a)
	}

	data.Classes = classes
	data.Associations = associations
	return data
}

// AddAssociation appends an association after the creation-time self-loop
// check. Endpoints are not validated against the class set here; a dangling
// reference is tolerated in the payload and simply not rendered.
func AddAssociation(data models.DiagramData, assoc models.Association) (models.DiagramData, error) {
	if assoc.FromClassID == assoc.ToClassID {
		return data, ErrSelfAssociation
	}
	data.Associations = append(data.Associations, assoc)
	return data, nil
}
