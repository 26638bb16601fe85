package attendance

import (
	"testing"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func TestClassify_AllHours(t *testing.T) {
	for h := 0; h < 24; h++ {
		want := attendance.ShiftNight
		if h >= 6 && h < 18 {
			want = attendance.ShiftDay
		}
		assert.Equal(t, want, Classify(at(monday, h, 59)), "hour %d", h)
	}
}

func TestWorkDate(t *testing.T) {
	tuesday := nextDay(monday)

	assert.Equal(t, monday, WorkDate(at(monday, 9, 0), attendance.ShiftDay))
	assert.Equal(t, monday, WorkDate(at(monday, 22, 0), attendance.ShiftNight))
	assert.Equal(t, monday, WorkDate(at(tuesday, 1, 0), attendance.ShiftNight))
	assert.Equal(t, monday, WorkDate(at(tuesday, 5, 59), attendance.ShiftNight))
}

func TestTimeInAllowed(t *testing.T) {
	assert.True(t, TimeInAllowed(at(monday, 6, 0), attendance.ShiftDay))
	assert.True(t, TimeInAllowed(at(monday, 16, 59), attendance.ShiftDay))
	assert.False(t, TimeInAllowed(at(monday, 17, 0), attendance.ShiftDay))
	assert.False(t, TimeInAllowed(at(monday, 17, 59), attendance.ShiftDay))
	assert.True(t, TimeInAllowed(at(monday, 18, 0), attendance.ShiftNight))
	assert.True(t, TimeInAllowed(at(monday, 3, 0), attendance.ShiftNight))
	assert.False(t, TimeInAllowed(at(monday, 9, 0), attendance.ShiftNight))
}

func TestReentryAllowed(t *testing.T) {
	assert.False(t, ReentryAllowed(at(monday, 7, 59), attendance.ShiftDay))
	assert.True(t, ReentryAllowed(at(monday, 8, 0), attendance.ShiftDay))
	assert.True(t, ReentryAllowed(at(monday, 16, 59), attendance.ShiftDay))
	assert.False(t, ReentryAllowed(at(monday, 17, 0), attendance.ShiftDay))
	assert.True(t, ReentryAllowed(at(monday, 19, 0), attendance.ShiftNight))
	assert.True(t, ReentryAllowed(at(monday, 23, 0), attendance.ShiftNight))
	assert.True(t, ReentryAllowed(at(monday, 2, 0), attendance.ShiftNight))
}

func TestShiftEnd(t *testing.T) {
	assert.Equal(t, at(monday, 17, 0), ShiftEnd(monday, attendance.ShiftDay, manila))
	assert.Equal(t, at(nextDay(monday), 6, 0), ShiftEnd(monday, attendance.ShiftNight, manila))
}

func TestIsCurrent(t *testing.T) {
	tuesday := nextDay(monday)
	dayRec := attendance.AttendanceRecord{Date: monday, ShiftType: attendance.ShiftDay}
	nightRec := attendance.AttendanceRecord{Date: monday, ShiftType: attendance.ShiftNight}

	assert.True(t, IsCurrent(dayRec, at(monday, 15, 0)))
	assert.False(t, IsCurrent(dayRec, at(tuesday, 7, 0)))
	assert.True(t, IsCurrent(nightRec, at(monday, 23, 0)))
	assert.True(t, IsCurrent(nightRec, at(tuesday, 7, 59)))
	assert.False(t, IsCurrent(nightRec, at(tuesday, 8, 0)))
}
