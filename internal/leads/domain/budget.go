package domain

// maxBudget caps parsed values so absurd inputs cannot overflow.
const maxBudget = 1_000_000_000

// ParseBudget extracts the first run of ASCII digits in raw, read as lakhs.
// "10-15L" yields 10, "Rs 4L" yields 4. ok is false when raw has no digits.
func ParseBudget(raw string) (value int, ok bool) {
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c < '0' || c > '9' {
			if ok {
				break
			}
			continue
		}
		ok = true
		if value < maxBudget {
			value = value*10 + int(c-'0')
		}
	}
	return value, ok
}
