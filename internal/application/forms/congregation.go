package forms

import (
	"net/url"
	"strconv"
	"strings"

	"congrega/internal/domain/congregation"
)

// CongregationInput is the posted congregation form.
type CongregationInput struct {
	Name        string `form:"name" validate:"required,min=3,max=100"`
	Address     string `form:"address" validate:"required,min=5,max=200"`
	City        string `form:"city" validate:"required,min=2,max=100"`
	State       string `form:"state" validate:"len=2"`
	Phone       string `form:"phone" validate:"omitempty,min=10,max=15"`
	Responsible string `form:"responsible" validate:"required,min=3,max=100"`
	Capacity    string `form:"capacity" validate:"omitempty,number,intgte=1,intlte=10000"`
	Status      string `form:"status" validate:"required,oneof=ativa em_construcao inativa"`

	SundayMorningService string `form:"sunday_morning_service" validate:"omitempty,hhmm"`
	SundayEveningService string `form:"sunday_evening_service" validate:"omitempty,hhmm"`
	WednesdayService     string `form:"wednesday_service" validate:"omitempty,hhmm"`
	YouthMeetingDay      string `form:"youth_meeting_day" validate:"omitempty,max=20"`
	YouthMeetingTime     string `form:"youth_meeting_time" validate:"omitempty,hhmm"`
	MinorsMeetingDay     string `form:"minors_meeting_day" validate:"omitempty,max=20"`
	MinorsMeetingTime    string `form:"minors_meeting_time" validate:"omitempty,hhmm"`
}

// DecodeCongregation reads a CongregationInput from posted values.
func DecodeCongregation(v url.Values) CongregationInput {
	return CongregationInput{
		Name:                 value(v, "name"),
		Address:              value(v, "address"),
		City:                 value(v, "city"),
		State:                strings.ToUpper(value(v, "state")),
		Phone:                value(v, "phone"),
		Responsible:          value(v, "responsible"),
		Capacity:             value(v, "capacity"),
		Status:               value(v, "status"),
		SundayMorningService: value(v, "sunday_morning_service"),
		SundayEveningService: value(v, "sunday_evening_service"),
		WednesdayService:     value(v, "wednesday_service"),
		YouthMeetingDay:      value(v, "youth_meeting_day"),
		YouthMeetingTime:     value(v, "youth_meeting_time"),
		MinorsMeetingDay:     value(v, "minors_meeting_day"),
		MinorsMeetingTime:    value(v, "minors_meeting_time"),
	}
}

// NewCongregationInput returns the defaults of an empty create form.
func NewCongregationInput() CongregationInput {
	return CongregationInput{Status: congregation.StatusActive}
}

// CongregationInputFrom pre-populates the edit form from c.
func CongregationInputFrom(c congregation.Congregation) CongregationInput {
	in := CongregationInput{
		Name:                 c.Name,
		Address:              c.Address,
		City:                 c.City,
		State:                c.State,
		Phone:                c.Phone,
		Responsible:          c.Responsible,
		Status:               c.Status,
		SundayMorningService: c.Schedule.SundayMorningService,
		SundayEveningService: c.Schedule.SundayEveningService,
		WednesdayService:     c.Schedule.WednesdayService,
		YouthMeetingDay:      c.Schedule.YouthMeetingDay,
		YouthMeetingTime:     c.Schedule.YouthMeetingTime,
		MinorsMeetingDay:     c.Schedule.MinorsMeetingDay,
		MinorsMeetingTime:    c.Schedule.MinorsMeetingTime,
	}
	if c.Capacity > 0 {
		in.Capacity = strconv.Itoa(c.Capacity)
	}
	return in
}

// Congregation converts a validated input into the domain record.
// PRE: Validate(in) returned nil
func (in CongregationInput) Congregation() congregation.Congregation {
	capacity, _ := strconv.Atoi(in.Capacity)
	return congregation.Congregation{
		Name:        in.Name,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		Phone:       in.Phone,
		Responsible: in.Responsible,
		Capacity:    capacity,
		Status:      in.Status,
		Schedule: congregation.Schedule{
			SundayMorningService: in.SundayMorningService,
			SundayEveningService: in.SundayEveningService,
			WednesdayService:     in.WednesdayService,
			YouthMeetingDay:      in.YouthMeetingDay,
			YouthMeetingTime:     in.YouthMeetingTime,
			MinorsMeetingDay:     in.MinorsMeetingDay,
			MinorsMeetingTime:    in.MinorsMeetingTime,
		},
	}
}
