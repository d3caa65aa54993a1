package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/todaysfinds/tkd-car/models"
)

func TestRequestCoversDate(t *testing.T) {
	req := models.AbsenceRequest{StartDate: "2024-03-01", EndDate: "2024-03-10"}

	assert.True(t, RequestCoversDate(req, "2024-03-01"))
	assert.True(t, RequestCoversDate(req, "2024-03-05"))
	assert.True(t, RequestCoversDate(req, "2024-03-10"))
	assert.False(t, RequestCoversDate(req, "2024-02-28"))
	assert.False(t, RequestCoversDate(req, "2024-03-11"))
}

func TestRequestCoversDateSingleDay(t *testing.T) {
	req := models.AbsenceRequest{StartDate: "2024-03-04"}

	assert.True(t, RequestCoversDate(req, "2024-03-04"))
	assert.False(t, RequestCoversDate(req, "2024-03-05"))
}

func TestExcludedOnDateRequiresApproval(t *testing.T) {
	req := models.AbsenceRequest{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-10",
		Status:    models.RequestApproved,
	}

	assert.True(t, ExcludedOnDate(req, "2024-03-05"))
	assert.False(t, ExcludedOnDate(req, "2024-02-28"))

	req.Status = models.RequestPending
	assert.False(t, ExcludedOnDate(req, "2024-03-05"))

	req.Status = models.RequestRejected
	assert.False(t, ExcludedOnDate(req, "2024-03-05"))
}
