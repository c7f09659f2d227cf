package badger

import "fmt"

// Key prefixes for the different record types. User-owned records embed the
// owner in the key so per-user reads are plain prefix scans; the treats
// relation is stored as forward and reverse composite link keys.
const (
	userPrefix        = "usr"
	doctorPrefix      = "dct"
	doctorNamePrefix  = "dctnm"
	appointmentPrefix = "apt"
	medicationPrefix  = "med"
	conditionPrefix   = "cnd"
	testResultPrefix  = "tst"
	notePrefix        = "nte"
	treatsPrefix      = "trtfw" // user:condition -> medication
	treatedByPrefix   = "trtbk" // user:medication -> condition
)

// makeUserKey generates a key for a user record.
func makeUserKey(userID string) []byte {
	return fmt.Appendf(nil, "%s:%s", userPrefix, userID)
}

// makeDoctorKey generates a key for a doctor record.
func makeDoctorKey(doctorID string) []byte {
	return fmt.Appendf(nil, "%s:%s", doctorPrefix, doctorID)
}

// makeDoctorNameKey generates a key for the unique doctor-name index.
func makeDoctorNameKey(name string) []byte {
	return fmt.Appendf(nil, "%s:%s", doctorNamePrefix, name)
}

// makeOwnedKey generates a composite key for a user-owned record.
// Format: prefix:userID:entityID
func makeOwnedKey(prefix, userID, entityID string) []byte {
	return fmt.Appendf(nil, "%s:%s:%s", prefix, userID, entityID)
}

// makeOwnedPrefix generates the scan prefix covering all of a user's records
// of one type. The trailing colon keeps one user's scan from leaking into
// another user whose id shares a prefix.
func makeOwnedPrefix(prefix, userID string) []byte {
	return fmt.Appendf(nil, "%s:%s:", prefix, userID)
}

// makeNoteKey generates a key for an appointment note. Notes are 1:1 with
// appointments, so the appointment id is the whole key.
func makeNoteKey(appointmentID string) []byte {
	return fmt.Appendf(nil, "%s:%s", notePrefix, appointmentID)
}

// makeLinkKey generates a composite key for one direction of the treats relation.
// Format: prefix:userID:fromID:toID
func makeLinkKey(prefix, userID, fromID, toID string) []byte {
	return fmt.Appendf(nil, "%s:%s:%s:%s", prefix, userID, fromID, toID)
}

// makeLinkPrefix generates the scan prefix for all links out of one record.
func makeLinkPrefix(prefix, userID, fromID string) []byte {
	return fmt.Appendf(nil, "%s:%s:%s:", prefix, userID, fromID)
}
