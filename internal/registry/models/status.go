// Package models defines the persisted entities of the trademark registry:
// decrees, publications, objections, auxiliary documents and the flat
// reference tables they point at.
package models

// DecreeStatus is the outcome recorded on a ministerial decree.
type DecreeStatus int

const (
	DecreeAccept   DecreeStatus = 1
	DecreeReject   DecreeStatus = 2
	DecreeWithdraw DecreeStatus = 3
	DecreeCancel   DecreeStatus = 4
)

func (s DecreeStatus) Valid() bool {
	return s >= DecreeAccept && s <= DecreeCancel
}

// Display returns the Arabic label shown in tables and printed documents.
func (s DecreeStatus) Display() string {
	switch s {
	case DecreeAccept:
		return "قبول"
	case DecreeReject:
		return "رفض"
	case DecreeWithdraw:
		return "سحب"
	case DecreeCancel:
		return "الغاء"
	}
	return ""
}

// PublicationStatus tracks a bulletin entry from initial publication to its
// final or withdrawn state. CONFLICT marks an entry under active objection.
type PublicationStatus int

const (
	PublicationInitial  PublicationStatus = 1
	PublicationConflict PublicationStatus = 2
	PublicationFinal    PublicationStatus = 3
	PublicationWithdraw PublicationStatus = 4
)

func (s PublicationStatus) Valid() bool {
	return s >= PublicationInitial && s <= PublicationWithdraw
}

func (s PublicationStatus) Display() string {
	switch s {
	case PublicationInitial:
		return "نشر مبدئي"
	case PublicationConflict:
		return "متنازع عليه"
	case PublicationFinal:
		return "نشر نهائي"
	case PublicationWithdraw:
		return "مسحوب"
	}
	return ""
}

// ObjectionStatus tracks a complaint through fee payment, fee confirmation
// and the final staff decision.
type ObjectionStatus int

const (
	ObjectionPending   ObjectionStatus = 1
	ObjectionUnconfirm ObjectionStatus = 2
	ObjectionPaid      ObjectionStatus = 3
	ObjectionAccept    ObjectionStatus = 4
	ObjectionReject    ObjectionStatus = 5
)

func (s ObjectionStatus) Valid() bool {
	return s >= ObjectionPending && s <= ObjectionReject
}

func (s ObjectionStatus) Display() string {
	switch s {
	case ObjectionPending:
		return "في انتظار الدفع"
	case ObjectionUnconfirm:
		return "في انتظار التأكيد"
	case ObjectionPaid:
		return "تم الدفع"
	case ObjectionAccept:
		return "موافقة"
	case ObjectionReject:
		return "رفض"
	}
	return ""
}
