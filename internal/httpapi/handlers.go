package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Azhovan/formguard"
	"github.com/Azhovan/formguard/classify"
	"github.com/Azhovan/formguard/internal/logging"
)

type formInfo struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

func (a *api) listForms(c *gin.Context) {
	names := formguard.Presets()
	forms := make([]formInfo, 0, len(names))
	for _, name := range names {
		schema, _ := formguard.Preset(name)
		forms = append(forms, formInfo{Name: name, Fields: schema.Fields()})
	}
	c.JSON(http.StatusOK, gin.H{"forms": forms})
}

type validateResponse struct {
	Valid  bool             `json:"valid"`
	Errors formguard.Result `json:"errors"`
}

func (a *api) validateForm(c *gin.Context) {
	cat := a.catalog(c)
	name := c.Param("form")

	schema, err := formguard.Preset(name)
	if err != nil {
		a.fail(c, cat, &classify.HTTPError{Status: http.StatusNotFound, Err: err}, cat.Text("api.unknown_form", nil))
		return
	}

	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		a.fail(c, cat, &classify.HTTPError{Status: http.StatusBadRequest, Err: err}, cat.Text("api.invalid_body", nil))
		return
	}

	result := a.validator(cat).ValidateForm(values, schema)
	if !result.Valid() {
		a.logger.Info("form rejected",
			zap.String(logging.FormKey, name),
			zap.Strings("fields", result.Fields()),
		)
		c.JSON(http.StatusUnprocessableEntity, validateResponse{Valid: false, Errors: result})
		return
	}
	c.JSON(http.StatusOK, validateResponse{Valid: true, Errors: result})
}

// eligibilityRequest carries dates as strings so both 2006-01-02 and RFC3339 are accepted.
type eligibilityRequest struct {
	Age               int     `json:"age" binding:"gte=0"`
	BirthDate         string  `json:"birthDate"`
	Weight            float64 `json:"weight" binding:"gte=0"`
	LastDonationDate  string  `json:"lastDonationDate"`
	HasChronicDisease bool    `json:"hasChronicDisease"`
}

var errBadDate = errors.New("date must be YYYY-MM-DD or RFC3339")

func (r eligibilityRequest) donor() (formguard.Donor, error) {
	d := formguard.Donor{
		Age:               r.Age,
		Weight:            r.Weight,
		HasChronicDisease: r.HasChronicDisease,
	}
	var err error
	if d.BirthDate, err = parseDate(r.BirthDate); err != nil {
		return d, err
	}
	if d.LastDonationDate, err = parseDate(r.LastDonationDate); err != nil {
		return d, err
	}
	return d, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, errBadDate
}

type eligibilityResponse struct {
	Eligible   bool     `json:"eligible"`
	Violations []string `json:"violations"`
}

func (a *api) checkEligibility(c *gin.Context) {
	cat := a.catalog(c)

	var req eligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.fail(c, cat, &classify.HTTPError{Status: http.StatusBadRequest, Err: err}, cat.Text("api.invalid_body", nil))
		return
	}
	donor, err := req.donor()
	if err != nil {
		a.fail(c, cat, &classify.HTTPError{Status: http.StatusBadRequest, Err: err}, cat.Text("api.invalid_body", nil))
		return
	}

	violations := a.validator(cat).Eligibility(donor)
	if violations == nil {
		violations = []string{}
	}
	c.JSON(http.StatusOK, eligibilityResponse{Eligible: len(violations) == 0, Violations: violations})
}
