package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagramDataRoundTripKeepsAssociationClassPosition(t *testing.T) {
	payload := []byte(`{
		"classes": [
			{"id": "c1", "name": "Student", "position": {"x": 1, "y": 2}},
			{"id": "c2", "name": "Course"}
		],
		"associations": [
			{
				"id": "r1",
				"fromClassId": "c1",
				"toClassId": "c2",
				"fromMultiplicity": "*",
				"toMultiplicity": "*",
				"relationshipType": "association",
				"hasAssociationClass": true,
				"associationClass": {
					"id": "ac1",
					"name": "Enrollment",
					"attributes": [{"id": "a1", "name": "grade", "type": "Double"}],
					"position": {"x": 5, "y": 7}
				}
			}
		]
	}`)

	var data DiagramData
	require.NoError(t, json.Unmarshal(payload, &data))

	require.Len(t, data.Associations, 1)
	ac := data.Associations[0].AssociationClass
	require.NotNil(t, ac)
	require.NotNil(t, ac.Position)
	assert.Equal(t, 5.0, ac.Position.X)
	assert.Equal(t, 7.0, ac.Position.Y)

	out, err := json.Marshal(data)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"position":{"x":5,"y":7}`)
}
