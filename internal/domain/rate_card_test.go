package domain

import (
	"strings"
	"testing"
)

func TestDefaultRateCardValidates(t *testing.T) {
	rc := DefaultRateCard()
	if err := rc.Validate(); err != nil {
		t.Fatalf("default card should validate: %v", err)
	}

	if rc.Season.MinimumBillableCost != 4*rc.Equipment.Loader {
		t.Fatalf("minimum billable = %v, want 4 x loader rate", rc.Season.MinimumBillableCost)
	}
}

func TestDefaultRateCardReturnsFreshCopy(t *testing.T) {
	a := DefaultRateCard()
	a.Season.EventsPerTrigger[Trigger5cm] = 99

	b := DefaultRateCard()
	if b.Season.EventsPerTrigger[Trigger5cm] != 16 {
		t.Fatalf("events map shared between cards: got %d", b.Season.EventsPerTrigger[Trigger5cm])
	}
}

func TestRateCardValidateRejectsBadValues(t *testing.T) {
	rc := DefaultRateCard()
	rc.Equipment.Loader = -1
	rc.Season.TruckCapacityM3 = 0
	rc.Season.MinLoadIntervalMinutes = 12

	err := rc.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	for _, want := range []string{"equipment.loader", "truck_capacity_m3", "load interval band"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestEventsPerSeason(t *testing.T) {
	rc := DefaultRateCard()

	cases := []struct {
		trigger ClearingTrigger
		want    int
	}{
		{Trigger5cm, 16},
		{Trigger3cm, 23},
		{Trigger2cm, 30},
		{"", 16},
		{"10cm", 16},
	}
	for _, c := range cases {
		if got := rc.EventsPerSeason(c.trigger); got != c.want {
			t.Errorf("EventsPerSeason(%q) = %d, want %d", c.trigger, got, c.want)
		}
	}
}

func TestHaulingEventsPerSeason(t *testing.T) {
	rc := DefaultRateCard()

	req := ServiceRequest{ClearingTrigger: Trigger3cm}
	if got := rc.HaulingEventsPerSeason(req); got != 0 {
		t.Fatalf("hauling disabled: got %d, want 0", got)
	}

	req.Hauling.Enabled = true
	if got := rc.HaulingEventsPerSeason(req); got != 23 {
		t.Fatalf("hauling without interval: got %d, want 23", got)
	}

	req.HaulingInterval = 4
	if got := rc.HaulingEventsPerSeason(req); got != 4 {
		t.Fatalf("hauling with interval: got %d, want 4", got)
	}
}

func TestEquipmentHourlyRate(t *testing.T) {
	rc := DefaultRateCard()
	e := Equipment{Loaders: 2, SkidSteers: 1, ShovelCrews: 1, Trucks: 3, SaltingTrucks: 1}

	// 2*160 + 110 + 130 + 3*125 + 130
	if got := e.HourlyRate(rc.Equipment); got != 1065 {
		t.Fatalf("hourly rate = %v, want 1065", got)
	}
	if got := e.Shovelers(rc.Season.ShovelCrewSize); got != 2 {
		t.Fatalf("shovelers = %d, want 2", got)
	}
}
