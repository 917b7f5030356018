package coordinator

import (
	"time"

	"github.com/cuemby/printplan/pkg/calendar"
	"github.com/cuemby/printplan/pkg/store"
	"github.com/cuemby/printplan/pkg/types"
)

// newCalendar builds a Calendar backed by st's per-date override lookup,
// adapting store.Store's pointer-returning signature to the value-returning
// shape calendar.DayScheduleOverride expects.
func newCalendar(st store.Store, settings *types.FactorySettings) *calendar.Calendar {
	return calendar.New(settings, func(date time.Time) (types.DaySchedule, bool, error) {
		ds, found, err := st.GetDayScheduleForDate(date)
		if err != nil || !found {
			return types.DaySchedule{}, found, err
		}
		return *ds, true, nil
	})
}
