package wizard

// CanAccess reports whether questionID is reachable from currentQuestionID.
// Any integer is accepted; callers pass catalog ids.
func CanAccess(questionID, currentQuestionID int) bool {
	return questionID <= currentQuestionID
}
