package model

// BookingStatus is the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) IsValid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCompleted || s == StatusCancelled
}

// Staff represents an individual staff member
type Staff struct {
	ID     string
	Name   string
	Skills []string

	// AvgRating is the mean of historical review ratings on a 0-5 scale.
	// 0 if the staff member has no reviews.
	AvgRating float64

	// TeamIDs are the teams this staff member belongs to (may be empty)
	TeamIDs []string
}

// Team represents a group of staff members that can be booked as a unit
type Team struct {
	ID        string
	Name      string
	Active    bool
	MemberIDs []string
}

// Booking represents a committed assignment. At most one of StaffID/TeamID
// is set; both empty means the booking is unassigned.
type Booking struct {
	ID     string
	Date   string // 2006-01-02
	Start  int    // minutes since midnight
	End    int    // minutes since midnight
	Status BookingStatus

	StaffID string // empty if not individually assigned
	TeamID  string // empty if not team assigned

	// RecurringGroupID links sibling bookings generated from one
	// recurrence request (empty for one-off bookings)
	RecurringGroupID string

	// Denormalized display fields carried into conflict reports
	ServiceName  string
	CustomerName string
}

// Unavailability represents a declared block for one staff member on one date.
// A record without a window (AllDay) blocks the whole day.
type Unavailability struct {
	ID      string
	StaffID string
	Date    string // 2006-01-02; the first occurrence when RRule is set
	AllDay  bool
	Start   int // minutes since midnight, meaningful when !AllDay
	End     int

	// RRule, when set, repeats the block onto every date the rule
	// expands to (e.g. "FREQ=WEEKLY;BYDAY=MO")
	RRule  string
	Reason string
}

// ServiceRequirement describes the skill a service type requires
type ServiceRequirement struct {
	ID       string
	Name     string
	SkillTag string
}
