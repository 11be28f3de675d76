package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ParkingLotterySpec defines a lottery session: where its configuration lives
// and how the draws are run.
type ParkingLotterySpec struct {
	// ConfigMapRef names the ConfigMap holding the garage layout and the roster.
	// +kubebuilder:validation:Required
	ConfigMapRef ConfigMapReference `json:"configMapRef"`

	// Seed makes the session reproducible. The same seed, roster and layout
	// always produce the same draws.
	// +kubebuilder:validation:Required
	Seed int64 `json:"seed"`

	// MaxDraws stops the session after this many draws. Zero means one draw
	// per apartment.
	// +kubebuilder:validation:Minimum=0
	// +optional
	MaxDraws int32 `json:"maxDraws,omitempty"`

	// BalanceSimpleByGroup spreads simple apartments over floor/side groups.
	// +optional
	BalanceSimpleByGroup bool `json:"balanceSimpleByGroup,omitempty"`

	// AllowSurplusExtended lets simple apartments take extended spots that no
	// extended apartment needs once normal spots run out. Defaults to true.
	// +optional
	AllowSurplusExtended *bool `json:"allowSurplusExtended,omitempty"`
}

// ConfigMapReference references a ConfigMap in the same namespace.
type ConfigMapReference struct {
	// Name is the name of the ConfigMap.
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`
}

// DrawRecord is the outcome of one draw.
type DrawRecord struct {
	// Sequence is the 1-based position of the draw in the session.
	Sequence int32 `json:"sequence"`

	ApartmentID string `json:"apartmentID,omitempty"`

	// Category is simple, double or extended.
	// +optional
	Category string `json:"category,omitempty"`

	// SpotIDs are the spots assigned by this draw.
	// +optional
	SpotIDs []int `json:"spotIDs,omitempty"`

	// PairID is set for double apartments, as "<low>-<high>".
	// +optional
	PairID string `json:"pairID,omitempty"`

	// FromReservation tells whether the spots came from a personal reservation.
	// +optional
	FromReservation bool `json:"fromReservation,omitempty"`

	Success bool `json:"success"`

	// FailedStep names the stage that failed: SelectApartment, Classify,
	// SelectSpot or Assign.
	// +optional
	FailedStep string `json:"failedStep,omitempty"`

	// +optional
	Reason string `json:"reason,omitempty"`

	// +optional
	Message string `json:"message,omitempty"`
}

// Reservation is a personal reservation made before the draws.
type Reservation struct {
	ApartmentID string `json:"apartmentID"`

	// PairID is set for pair reservations.
	// +optional
	PairID string `json:"pairID,omitempty"`

	// SpotID is set for extended spot reservations.
	// +optional
	SpotID int `json:"spotID,omitempty"`
}

// SessionSummary counts the draws of a session.
type SessionSummary struct {
	TotalDraws          int32 `json:"totalDraws"`
	SuccessfulDraws     int32 `json:"successfulDraws"`
	FailedDraws         int32 `json:"failedDraws"`
	AllApartmentsSorted bool  `json:"allApartmentsSorted"`
	MaxDrawsReached     bool  `json:"maxDrawsReached,omitempty"`
	// FreeSpots left after the session.
	FreeSpots int32 `json:"freeSpots"`
}

// ParkingLotteryStatus is the result of the last session.
type ParkingLotteryStatus struct {
	// LastRunTime is when the session ran.
	// +optional
	LastRunTime metav1.Time `json:"lastRunTime,omitempty"`

	// +optional
	Summary SessionSummary `json:"summary,omitempty"`

	// Reservations as they stood before the first draw.
	// +optional
	Reservations []Reservation `json:"reservations,omitempty"`

	// Draws in the order they happened.
	// +optional
	Draws []DrawRecord `json:"draws,omitempty"`

	// Conditions represent the latest available observations of the ParkingLottery's state
	// +kubebuilder:validation:Optional
	// +patchMergeKey=type
	// +patchStrategy=merge
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty" patchStrategy:"merge" patchMergeKey:"type"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=pl
// +kubebuilder:printcolumn:name="Seed",type=integer,JSONPath=".spec.seed"
// +kubebuilder:printcolumn:name="Draws",type=integer,JSONPath=".status.summary.totalDraws"
// +kubebuilder:printcolumn:name="Completed",type=string,JSONPath=".status.conditions[?(@.type=='LotteryCompleted')].status"
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=".metadata.creationTimestamp"

// ParkingLottery is the Schema for the parkinglotteries API.
type ParkingLottery struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ParkingLotterySpec   `json:"spec,omitempty"`
	Status ParkingLotteryStatus `json:"status,omitempty"`
}

// ParkingLotteryList contains a list of ParkingLottery resources.
// +kubebuilder:object:root=true
type ParkingLotteryList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []ParkingLottery `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ParkingLottery{}, &ParkingLotteryList{})
}

// Condition Types for ParkingLottery
const (
	// TypeConfigurationValid indicates whether the layout and roster could be loaded and reserved for
	TypeConfigurationValid = "ConfigurationValid"
	// TypeLotteryCompleted indicates whether every active apartment was sorted
	TypeLotteryCompleted = "LotteryCompleted"
)

// Condition Reasons for ConfigurationValid
const (
	// ReasonConfigurationAccepted indicates pre-reservation succeeded
	ReasonConfigurationAccepted = "ConfigurationAccepted"
	// ReasonInvalidConfiguration indicates a layout, roster or capacity problem
	ReasonInvalidConfiguration = "InvalidConfiguration"
)

// Condition Reasons for LotteryCompleted
const (
	// ReasonAllApartmentsSorted indicates every active apartment holds its spots
	ReasonAllApartmentsSorted = "AllApartmentsSorted"
	// ReasonDrawFailed indicates the session stopped on a failed draw
	ReasonDrawFailed = "DrawFailed"
	// ReasonMaxDrawsReached indicates the draw limit stopped the session
	ReasonMaxDrawsReached = "MaxDrawsReached"
	// ReasonNotRun indicates the session never started
	ReasonNotRun = "NotRun"
)
