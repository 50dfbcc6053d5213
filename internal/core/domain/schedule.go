package domain

// NoScheduleMessage is shown whenever a schedule join yields nothing.
const NoScheduleMessage = "No schedule available"

type BusStop struct {
	Name        string `json:"name"`
	PickupTime  string `json:"pickup_time"`
	DropoffTime string `json:"dropoff_time"`
}

type BusRoute struct {
	RouteID   string    `json:"route_id"`
	BusNumber string    `json:"bus_number"`
	Driver    string    `json:"driver"`
	Stops     []BusStop `json:"stops"`
}

type BusSchedule struct {
	StudentID string    `json:"student_id"`
	Route     *BusRoute `json:"route,omitempty"`
}

func (b BusSchedule) Empty() bool {
	return b.Route == nil
}

type ClassScheduleEntry struct {
	ClassID     string `json:"class_id"`
	ClassName   string `json:"class_name"`
	TeacherName string `json:"teacher_name"`
	Schedule    string `json:"schedule"`
}

type ClassSchedule struct {
	StudentID string               `json:"student_id"`
	Entries   []ClassScheduleEntry `json:"entries"`
}

func (c ClassSchedule) Empty() bool {
	return len(c.Entries) == 0
}
