package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"github.com/gin-gonic/gin"
)

// OptionsResponse lists the values accepted by the optimize endpoints
type OptionsResponse struct {
	Tones        []models.Tone       `json:"tones"`
	Complexities []models.Complexity `json:"complexities"`
	Defaults     OptionDefaults      `json:"defaults"`
}

type OptionDefaults struct {
	Tone        models.Tone       `json:"tone"`
	Complexity  models.Complexity `json:"complexity"`
	TargetModel string            `json:"target_model"`
}

// GetOptions returns tones, complexities and defaults
func GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, OptionsResponse{
		Tones:        models.Tones(),
		Complexities: models.Complexities(),
		Defaults: OptionDefaults{
			Tone:        models.DefaultTone,
			Complexity:  models.DefaultComplexity,
			TargetModel: models.DefaultTargetModel,
		},
	})
}
