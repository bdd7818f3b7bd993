package review

// BaseIntervals is the expanding review schedule in days. Stage 0 is the
// first review after an item is added or answered wrong.
var BaseIntervals = [...]int{1, 3, 7, 14, 30, 60}

// MasteredHits is the number of consecutive correct answers after which an
// item counts as mastered.
const MasteredHits = 3

// GraduationHits is the number of consecutive correct answers after which an
// item leaves the regular schedule.
const GraduationHits = len(BaseIntervals)

// GraduatedIntervalDays is the review interval for graduated items.
const GraduatedIntervalDays = 90
