package exi

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	Text "github.com/linkdotnet/golang-stringbuilder"
)

func DateTimeParse(cal string, kind DateTimeType) (*DateTimeValue, error) {
	cal = strings.TrimSpace(cal)

	sYear := 0
	sMonthDay := 0
	sTime := 0
	sFractionalSecs := 0
	var sPresenceTimezone bool
	var sTimezone int
	var err error

	out := Text.StringBuilder{}
	out.Append(cal)

	switch kind {
	// gYear Year, [Time-Zone]
	case DateTimeGYear:
		sYear, err = dateTimeParseYear(&out)
		if err != nil {
			return nil, err
		}
	case DateTimeGYearMonth:
		sYear, err = dateTimeParseYear(&out)
		if err != nil {
			return nil, err
		}
		if err := dateTimeCheckCharacter(&out, '-'); err != nil {
			return nil, err
		}
		sMonthDay, err = dateTimeParseMonth(&out)
		if err != nil {
			return nil, err
		}
		sMonthDay *= DateTimeValue_MonthMultiplicator
	case DateTimeDate:
		sYear, err = dateTimeParseYear(&out)
		if err != nil {
			return nil, err
		}
		if err := dateTimeCheckCharacter(&out, '-'); err != nil {
			return nil, err
		}
		sMonthDay, err = dateTimeParseMonthDay(&out)
		if err != nil {
			return nil, err
		}
		if err := dateTimeCheckCharacter(&out, 'T'); err != nil {
			return nil, err
		}
		fallthrough
	case DateTimeTime:
		sTime, err = dateTimeParseTime(&out)
		if err != nil {
			return nil, err
		}
		if out.Len() > 0 && out.RuneAt(0) == '.' {
			if err := out.Remove(0, 1); err != nil {
				return nil, err
			}
			digits := dateTimeCountDigits(&out)
			tmp, err := out.Substring(0, digits)
			if err != nil {
				return nil, err
			}
			sb2 := Text.StringBuilder{}
			fracSec, err := strconv.ParseInt(sb2.Append(tmp).Reverse().ToString(), 10, 32)
			if err != nil {
				return nil, err
			}
			sFractionalSecs = int(fracSec)

			if err := out.Remove(0, digits); err != nil {
				return nil, err
			}
		}
	case DateTimeGMonth:
		if err := dateTimeCheckCharacter(&out, '-'); err != nil {
			return nil, err
		}
		if err := dateTimeCheckCharacter(&out, '-'); err != nil {
			return nil, err
		}
		sMonthDay, err = dateTimeParseMonth(&out)
		if err != nil {
			return nil, err
		}
		sMonthDay *= DateTimeValue_MonthMultiplicator

		if out.Len() > 1 && out.RuneAt(0) == out.RuneAt(1) && out.RuneAt(0) == '-' {
			if err := dateTimeCheckCharacter(&out, '-'); err != nil {
				return nil, err
			}
			if err := dateTimeCheckCharacter(&out, '-'); err != nil {
				return nil, err
			}
		}
	case DateTimeGMonthDay:
		if err := dateTimeCheckCharacter(&out, '-'); err != nil {
			return nil, err
		}
		if err := dateTimeCheckCharacter(&out, '-'); err != nil {
			return nil, err
		}
		sMonthDay, err = dateTimeParseMonth(&out)
		if err != nil {
			return nil, err
		}
	case DateTimeGDay:
		if err := dateTimeCheckCharacter(&out, '-'); err != nil {
			return nil, err
		}
		if err := dateTimeCheckCharacter(&out, '-'); err != nil {
			return nil, err
		}
		if err := dateTimeCheckCharacter(&out, '-'); err != nil {
			return nil, err
		}
		sMonthDay, err = dateTimeParseDay(&out)
		if err != nil {
			return nil, err
		}
	default:
		return nil, NewError(ErrUnexpected, fmt.Sprintf("unsupported date time type: %d", kind))
	}

	// [TimeZone]
	// lexical representation of a timezone: (('+' | '-') hh ':' mm) |
	// 'Z',
	// where
	// * hh is a two-digit numeral (with leading zeros as required) that
	// represents the hours,
	// * mm is a two-digit numeral that represents the minutes,
	// * '+' indicates a nonnegative duration,
	// * '-' indicates a nonpositive duration.
	//
	// TimeZone TZHours * 64 + TZMinutes (896 = 14 * 64)

	// plus, minus, Z or nothing ?
	if out.Len() == 0 {
		sPresenceTimezone = false
		sTimezone = 0
	} else if out.Len() == 1 && out.RuneAt(0) == 'Z' {
		if err := out.Remove(0, 1); err != nil {
			return nil, err
		}
		sPresenceTimezone = true
		sTimezone = 0
	} else {
		sPresenceTimezone = true
		var multiplicator int

		if out.RuneAt(0) == '+' {
			multiplicator = 1
		} else if out.RuneAt(0) == '-' {
			multiplicator = -1
		} else {
			return nil, NewError(ErrInvalidEXIInput, fmt.Sprintf("unexpected character while parsing: %c", out.RuneAt(0)))
		}

		tmp, err := out.Substring(1, 3)
		if err != nil {
			return nil, err
		}
		hours, err := strconv.ParseInt(tmp, 10, 32)
		if err != nil {
			return nil, err
		}

		tmp, err = out.Substring(4, 6)
		if err != nil {
			return nil, err
		}
		minutes, err := strconv.ParseInt(tmp, 10, 32)
		if err != nil {
			return nil, err
		}

		sTimezone = multiplicator * (int(hours)*DateTimeValue_SecondsInMinute + int(minutes))
	}

	return NewDateTimeValue(kind, sYear, sMonthDay, sTime, sFractionalSecs, sPresenceTimezone, sTimezone), nil
}

func dateTimeParseYear(out *Text.StringBuilder) (int, error) {
	var sYear string
	var len int
	var err error

	if out.RuneAt(0) == '-' {
		sYear, err = out.Substring(0, 5)
		if err != nil {
			return -1, err
		}
		len = 5
	} else {
		sYear, err = out.Substring(0, 4)
		if err != nil {
			return -1, err
		}
		len = 4
	}
	year, err := strconv.ParseInt(sYear, 10, 32)
	if err != nil {
		return -1, err
	}

	if err := out.Remove(0, len); err != nil {
		return -1, err
	}

	return int(year), nil
}

func dateTimeParseMonth(out *Text.StringBuilder) (int, error) {
	sMonth, err := out.Substring(0, 2)
	if err != nil {
		return -1, err
	}
	month, err := strconv.ParseInt(sMonth, 10, 32)
	if err != nil {
		return -1, err
	}

	if err := out.Remove(0, 2); err != nil {
		return -1, err
	}

	return int(month), nil
}

func dateTimeParseDay(out *Text.StringBuilder) (int, error) {
	sDay, err := out.Substring(0, 2)
	if err != nil {
		return -1, err
	}
	day, err := strconv.ParseInt(sDay, 10, 32)
	if err != nil {
		return -1, err
	}

	if err := out.Remove(0, 2); err != nil {
		return -1, err
	}

	return int(day), nil
}

func dateTimeCheckCharacter(out *Text.StringBuilder, c rune) error {
	if out.Len() > 0 && out.RuneAt(0) == c {
		if err := out.Remove(0, 1); err != nil {
			return err
		}
	} else {
		return NewError(ErrInvalidEXIInput, "unexpected character while parsing")
	}

	return nil
}

func dateTimeParseMonthDay(out *Text.StringBuilder) (int, error) {
	month, err := dateTimeParseMonth(out)
	if err != nil {
		return -1, err
	}
	if err := dateTimeCheckCharacter(out, '-'); err != nil {
		return -1, err
	}
	day, err := dateTimeParseDay(out)
	if err != nil {
		return -1, err
	}

	return int(month)*DateTimeValue_MonthMultiplicator + int(day), nil
}

// Time ((Hour * 64) + Minutes) * 64 + seconds
func dateTimeParseTime(out *Text.StringBuilder) (int, error) {
	// Hour
	sHour, err := out.Substring(0, 2)
	if err != nil {
		return -1, err
	}
	hour, err := strconv.ParseInt(sHour, 10, 32)
	if err != nil {
		return -1, err
	}
	if err := out.Remove(0, 2); err != nil {
		return -1, err
	}

	if err := dateTimeCheckCharacter(out, ':'); err != nil {
		return -1, err
	}

	// Minute
	sMinutes, err := out.Substring(0, 2)
	if err != nil {
		return -1, err
	}
	minutes, err := strconv.ParseInt(sMinutes, 10, 32)
	if err != nil {
		return -1, err
	}
	if err := out.Remove(0, 2); err != nil {
		return -1, err
	}

	if err := dateTimeCheckCharacter(out, ':'); err != nil {
		return -1, err
	}

	// Second
	sSeconds, err := out.Substring(0, 2)
	if err != nil {
		return -1, err
	}
	seconds, err := strconv.ParseInt(sSeconds, 10, 32)
	if err != nil {
		return -1, err
	}
	if err := out.Remove(0, 2); err != nil {
		return -1, err
	}

	return ((int(hour)*DateTimeValue_SecondsInMinute)+int(minutes))*DateTimeValue_SecondsInMinute + int(seconds), nil
}

func dateTimeCountDigits(out *Text.StringBuilder) int {
	idx := 0
	for idx < out.Len() && unicode.IsDigit(out.RuneAt(idx)) {
		idx++
	}
	return idx
}

// DateTimeParseTime builds a DateTimeValue from a time.Time, keeping
// only the components the given kind carries.
func DateTimeParseTime(time *time.Time, kind DateTimeType) (*DateTimeValue, error) {
	var year, monthDay, secs, fractional int

	switch kind {
	case DateTimeGYear, DateTimeGYearMonth, DateTimeDate:
		year = time.Year()
		monthDay = dateTimeGetMonthDay(time)
	case DateTimeDateTime:
		year = time.Year()
		monthDay = dateTimeGetMonthDay(time)
		secs = dateTimeGetTime(time)
		fractional = time.Nanosecond() * 1_000_000
	case DateTimeTime:
		secs = dateTimeGetTime(time)
		fractional = time.Nanosecond() * 1_000_000
	case DateTimeGMonth, DateTimeGMonthDay, DateTimeGDay:
		monthDay = dateTimeGetMonthDay(time)
	default:
		return nil, NewError(ErrUnexpected, fmt.Sprintf("unsupported date time type: %d", kind))
	}

	minutes := dateTimeGetTimeZoneInMinutesOffset(time)
	timezone := (minutes/60)*64 + minutes%60
	return NewDateTimeValue(kind, year, monthDay, secs, fractional, timezone != 0, timezone), nil
}

func dateTimeGetMonthDay(time *time.Time) int {
	return int(time.Month())*DateTimeValue_MonthMultiplicator + time.Day()
}

// dateTimeGetTime packs wall-clock time as ((hour*64)+minute)*64+second.
func dateTimeGetTime(time *time.Time) int {
	return (time.Hour()*DateTimeValue_SecondsInMinute+time.Minute())*DateTimeValue_SecondsInMinute + time.Second()
}

func dateTimeGetTimeZoneInMinutesOffset(time *time.Time) int {
	_, offset := time.Zone()
	return offset / 60
}

func dateTimeGetTimeZoneInMillisecs(minutes int) int {
	return minutes / (1000 * 60)
}

func dateTimeSetMonthDay(monthDay int, t time.Time) time.Time {
	month := monthDay / DateTimeValue_MonthMultiplicator
	day := monthDay - month*DateTimeValue_MonthMultiplicator

	return time.Date(t.Year(), time.Month(month), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), nil)
}

func dateTimeSetTime(timeValue int, t time.Time) time.Time {
	hour := timeValue / DateTimeValue_SecondsInHour
	timeValue -= hour * DateTimeValue_SecondsInHour
	minute := timeValue / DateTimeValue_SecondsInMinute
	second := timeValue - minute*DateTimeValue_SecondsInMinute

	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, second, t.Nanosecond(), nil)
}

func dateTimeSetTimezone(tz int, t time.Time) time.Time {
	loc := time.FixedZone("GMT", ((tz/64)*60+tz%64)*60)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// writeAt copies s into chars starting at *pos and advances *pos past
// it. The dateTimeAppend* helpers below format each component with
// strconv/fmt and hand the result here.
func writeAt(chars []rune, pos *int, s string) {
	copy(chars[*pos:], []rune(s))
	*pos += len(s)
}

func dateTimeAppendYear(chars []rune, pos *int, year int) {
	sign := ""
	if year < 0 {
		sign = "-"
		year = -year
	}
	writeAt(chars, pos, fmt.Sprintf("%s%04d", sign, year))
}

func dateTimeAppendTwoDigits(chars []rune, pos *int, i int) {
	writeAt(chars, pos, fmt.Sprintf("%02d", i))
}

// dateTimeAppendMonth writes "-MM"; callers that need the doubled dash of
// the gMonth production ("--12") write their own leading '-' first.
func dateTimeAppendMonth(chars []rune, pos *int, monthDay int) {
	month := monthDay / DateTimeValue_MonthMultiplicator
	writeAt(chars, pos, "-")
	dateTimeAppendTwoDigits(chars, pos, month)
}

func dateTimeAppendMonthDay(chars []rune, pos *int, monthDay int) {
	// monthDay: Month * 32 + Day
	month := monthDay / DateTimeValue_MonthMultiplicator
	day := monthDay - (month * DateTimeValue_MonthMultiplicator)

	// -MM-DD
	writeAt(chars, pos, "-")
	dateTimeAppendTwoDigits(chars, pos, month)
	writeAt(chars, pos, "-")
	dateTimeAppendTwoDigits(chars, pos, day)
}

func dateTimeAppendDay(chars []rune, pos *int, day int) {
	dateTimeAppendTwoDigits(chars, pos, day)
}

func dateTimeAppendTime(chars []rune, pos *int, time int) {
	// time = ( ( hour * 64) + minutes ) * 64 + seconds
	hour := time / DateTimeValue_SecondsInHour
	time -= hour * DateTimeValue_SecondsInHour
	minutes := time / DateTimeValue_SecondsInMinute
	seconds := time - minutes*DateTimeValue_SecondsInMinute

	dateTimeAppendTwoDigits(chars, pos, hour)
	writeAt(chars, pos, ":")
	dateTimeAppendTwoDigits(chars, pos, minutes)
	writeAt(chars, pos, ":")
	dateTimeAppendTwoDigits(chars, pos, seconds)
}

// dateTimeAppendFractionalSeconds renders fracSecs reversed, since the
// EXI wire value already stores the fractional digits back-to-front to
// preserve leading zeros (see DecimalValue's revFractional).
func dateTimeAppendFractionalSeconds(chars []rune, pos *int, fracSecs, sLen int) {
	if fracSecs > 0 {
		writeAt(chars, pos, ".")
		writeAt(chars, pos, reverseString(strconv.Itoa(fracSecs)))
	}
}

func dateTimeAppendTimezone(chars []rune, pos *int, tz int) {
	if tz == 0 {
		writeAt(chars, pos, "Z")
		return
	}

	sign := "+"
	if tz < 0 {
		sign = "-"
		tz = -tz
	}
	writeAt(chars, pos, sign)

	hours := tz / 64
	dateTimeAppendTwoDigits(chars, pos, hours)
	writeAt(chars, pos, ":")
	dateTimeAppendTwoDigits(chars, pos, tz-hours*64)
}
