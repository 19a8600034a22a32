// Package integrity holds the rules every mutation shares: the identity
// domain, the dui format, store error mapping and cascading deletion.
package integrity

import "github.com/jwalitptl/medreminder-api/internal/repository"

// Edge says that Child records point at a parent through Ref.
type Edge struct {
	Child repository.Kind
	Ref   string
}

// Graph lists, per parent kind, the kinds that must go before it.
// Edge order is the order children are visited.
var Graph = map[repository.Kind][]Edge{
	repository.KindUser: {
		{Child: repository.KindPatient, Ref: repository.RefUser},
		{Child: repository.KindPrescription, Ref: repository.RefDoctor},
	},
	repository.KindPatient: {
		{Child: repository.KindPrescription, Ref: repository.RefPatient},
		{Child: repository.KindConfirmation, Ref: repository.RefPatient},
		{Child: repository.KindNotification, Ref: repository.RefPatient},
	},
	repository.KindPrescription: {
		{Child: repository.KindConfirmation, Ref: repository.RefPrescription},
	},
}
