package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dhnguyen/pillbox/internal/errors"
	"github.com/dhnguyen/pillbox/internal/model"
)

func validMedicine() *model.Medicine {
	return model.NewMedicine("Aspirin", 2, model.UnitPills, model.AdviceNone,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local), []string{"10:00 AM"})
}

func TestMedicineValid(t *testing.T) {
	assert.NoError(t, Medicine(validMedicine()))
}

func TestMedicineTrimsName(t *testing.T) {
	med := validMedicine()
	med.Name = "  Aspirin\x07  "
	require.NoError(t, Medicine(med))
	assert.Equal(t, "Aspirin", med.Name)
}

func TestMedicineEmptyName(t *testing.T) {
	med := validMedicine()
	med.Name = "   "
	err := Medicine(med)
	require.Error(t, err)
	assert.True(t, apperrors.IsUserError(err))
}

func TestMedicineNameTooLong(t *testing.T) {
	med := validMedicine()
	med.Name = strings.Repeat("a", MaxNameLength+1)
	assert.Error(t, Medicine(med))
}

func TestMedicineNonPositiveQuantity(t *testing.T) {
	med := validMedicine()
	med.Quantity = 0
	assert.ErrorIs(t, Medicine(med), apperrors.ErrInvalidQuantity)

	med.Quantity = -1
	assert.ErrorIs(t, Medicine(med), apperrors.ErrInvalidQuantity)
}

func TestMedicineUnknownUnit(t *testing.T) {
	med := validMedicine()
	med.Unit = "handful"
	assert.ErrorIs(t, Medicine(med), apperrors.ErrInvalidUnit)
}

func TestMedicineUnknownAdvice(t *testing.T) {
	med := validMedicine()
	med.IntakeAdvice = "While dancing"
	assert.ErrorIs(t, Medicine(med), apperrors.ErrInvalidAdvice)
}

func TestMedicineEndBeforeStart(t *testing.T) {
	med := validMedicine()
	med.EndDate = med.StartDate.AddDate(0, 0, -1)
	assert.ErrorIs(t, Medicine(med), apperrors.ErrEndBeforeStart)
}

func TestMedicineEndEqualsStartIsValid(t *testing.T) {
	med := validMedicine()
	med.EndDate = med.StartDate
	assert.NoError(t, Medicine(med))
}

func TestMedicineRequiresReminderTimes(t *testing.T) {
	med := validMedicine()
	med.ReminderTimes = nil
	err := Medicine(med)
	require.Error(t, err)
	assert.True(t, apperrors.IsUserError(err))
}

func TestMedicineRejectsBadTimeLabel(t *testing.T) {
	med := validMedicine()
	med.ReminderTimes = []string{"10:00 AM", "25:00 XM"}
	err := Medicine(med)
	require.Error(t, err)
	userErr, ok := apperrors.AsUserError(err)
	require.True(t, ok)
	assert.Equal(t, "25:00 XM", userErr.Value)
}

func TestTimeLabel(t *testing.T) {
	assert.NoError(t, TimeLabel("06:30 PM"))
	assert.Error(t, TimeLabel("18:30"))
}

func TestWebhookInput(t *testing.T) {
	assert.NoError(t, WebhookInput("alerts", model.WebhookTypeSlack, "https://hooks.slack.com/x"))
	assert.Error(t, WebhookInput("bad name!", model.WebhookTypeSlack, "https://hooks.slack.com/x"))
	assert.Error(t, WebhookInput("alerts", "telegram", "https://example.com"))
	assert.Error(t, WebhookInput("alerts", model.WebhookTypeSlack, "ftp://example.com"))
}

func TestSanitizeNote(t *testing.T) {
	assert.Equal(t, "line1\nline2", SanitizeNote("  line1\r\nline2\x00  "))
}
