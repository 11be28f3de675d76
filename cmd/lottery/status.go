package main

import (
	"sort"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	lotteryv1alpha1 "github.com/llm-d/parking-lottery/api/v1alpha1"
	"github.com/llm-d/parking-lottery/internal/lottery"
)

// buildStatus converts a session result into the ParkingLottery status.
// summary is nil when the session could not start.
func buildStatus(summary *lottery.SessionSummary, err error, at metav1.Time) lotteryv1alpha1.ParkingLotteryStatus {
	status := lotteryv1alpha1.ParkingLotteryStatus{LastRunTime: at}
	if summary == nil {
		msg := "session did not start"
		if err != nil {
			msg = err.Error()
		}
		setCondition(&status, lotteryv1alpha1.TypeConfigurationValid, metav1.ConditionFalse,
			lotteryv1alpha1.ReasonInvalidConfiguration, msg, at)
		setCondition(&status, lotteryv1alpha1.TypeLotteryCompleted, metav1.ConditionFalse,
			lotteryv1alpha1.ReasonNotRun, "no draw was made", at)
		return status
	}

	setCondition(&status, lotteryv1alpha1.TypeConfigurationValid, metav1.ConditionTrue,
		lotteryv1alpha1.ReasonConfigurationAccepted, "layout and roster accepted, reservations made", at)

	free := 0
	if summary.FinalGarage != nil {
		free = len(summary.FinalGarage.FreeSpots())
	}
	status.Summary = lotteryv1alpha1.SessionSummary{
		TotalDraws:          int32(summary.TotalDraws),
		SuccessfulDraws:     int32(summary.SuccessfulDraws),
		FailedDraws:         int32(summary.FailedDraws),
		AllApartmentsSorted: summary.AllApartmentsSorted,
		MaxDrawsReached:     summary.MaxDrawsReached,
		FreeSpots:           int32(free),
	}
	status.Reservations = reservationRecords(summary)
	for i, d := range summary.Draws {
		record := lotteryv1alpha1.DrawRecord{
			Sequence:        int32(i + 1),
			ApartmentID:     d.ApartmentID,
			Category:        string(d.Category),
			SpotIDs:         d.AssignedSpotIDs,
			PairID:          string(d.PairID),
			FromReservation: d.FromReservation,
			Success:         d.Success,
			Reason:          string(d.Reason),
			Message:         d.Message,
		}
		if !d.Success {
			record.FailedStep = d.FailedStep.String()
		}
		status.Draws = append(status.Draws, record)
	}

	switch {
	case summary.AllApartmentsSorted:
		setCondition(&status, lotteryv1alpha1.TypeLotteryCompleted, metav1.ConditionTrue,
			lotteryv1alpha1.ReasonAllApartmentsSorted, "every active apartment was sorted", at)
	case summary.MaxDrawsReached:
		setCondition(&status, lotteryv1alpha1.TypeLotteryCompleted, metav1.ConditionFalse,
			lotteryv1alpha1.ReasonMaxDrawsReached, "draw limit reached with apartments pending", at)
	default:
		msg := "session stopped before every apartment was sorted"
		if n := len(summary.Draws); n > 0 && !summary.Draws[n-1].Success {
			msg = summary.Draws[n-1].Message
		}
		setCondition(&status, lotteryv1alpha1.TypeLotteryCompleted, metav1.ConditionFalse,
			lotteryv1alpha1.ReasonDrawFailed, msg, at)
	}
	return status
}

// reservationRecords lists reservations ordered by apartment id.
func reservationRecords(summary *lottery.SessionSummary) []lotteryv1alpha1.Reservation {
	out := make([]lotteryv1alpha1.Reservation, 0, len(summary.Reservations.Double)+len(summary.Reservations.Extended))
	for aptID, pairID := range summary.Reservations.Double {
		out = append(out, lotteryv1alpha1.Reservation{ApartmentID: aptID, PairID: string(pairID)})
	}
	for aptID, spotID := range summary.Reservations.Extended {
		out = append(out, lotteryv1alpha1.Reservation{ApartmentID: aptID, SpotID: spotID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApartmentID < out[j].ApartmentID })
	return out
}

func setCondition(status *lotteryv1alpha1.ParkingLotteryStatus, condType string, s metav1.ConditionStatus, reason, msg string, at metav1.Time) {
	meta.SetStatusCondition(&status.Conditions, metav1.Condition{
		Type:               condType,
		Status:             s,
		Reason:             reason,
		Message:            msg,
		LastTransitionTime: at,
	})
}
