package exi

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Field widths and offsets of the EXI Date-Time representation:
// monthDay is month*32+day in 9 bits, time is ((h*64)+m)*64+s in 17
// bits, and the timezone, stored as hours*64+minutes, is offset by 896
// (14*64) into 11 bits. Years are stored relative to 2000.
const (
	DateTimeValue_NumberBitsMonthDay      = 9
	DateTimeValue_NumberBitsTime          = 17
	DateTimeValue_NumberBitsTimeZone      = 11
	DateTimeValue_YearOffset              = 2000
	DateTimeValue_TimeZoneOffsetInMinutes = 896
	DateTimeValue_SecondsInMinute         = 64
	DateTimeValue_SecondsInHour           = 64 * 64
	DateTimeValue_MonthMultiplicator      = 32
)

type DateTimeValue struct {
	*AbstractValue
	kind                    DateTimeType
	year                    int
	monthDay                int
	time                    int
	presenceFractionalSecs  bool
	fractionalSecs          int
	presenceTimezone        bool
	timezone                int
	normalized              bool
	normalizedDateTimeValue *DateTimeValue
	sizeFractionalSecs      int
}

func NewDateTimeValue(kind DateTimeType, year, md, time, fractionalSecs int, presenceTimezone bool, timezone int) *DateTimeValue {
	return NewDateTimeValueWithNormalized(kind, year, md, time, fractionalSecs, presenceTimezone, timezone, false)
}

func NewDateTimeValueWithNormalized(kind DateTimeType, year, md, time, fractionalSecs int, presenceTimezone bool, timezone int, normalized bool) *DateTimeValue {
	// Time: ((Hour * 64) + Minutes) * 64 + seconds
	// Canonical EXI: The Hour value MUST NOT be 24
	{
		hour := time / DateTimeValue_SecondsInHour
		if hour == 24 {
			time -= hour * DateTimeValue_SecondsInHour
			minute := time / DateTimeValue_SecondsInMinute
			time -= minute * DateTimeValue_SecondsInMinute // second

			// add one day / set hour to zero
			md++
			hour = 0
			// adapt time
			time = ((hour*DateTimeValue_SecondsInMinute)+minute)*DateTimeValue_SecondsInMinute + time

			// month & day
			// e.g., 1999-12-31T24:00:00Z --> 2000-01-01T00:00:00Z
			month := md / DateTimeValue_MonthMultiplicator
			//day := md - (month * DateTimeValue_MonthMultiplicator)

			if month == 13 {
				year++
				month = 1
				day := 1
				md = month*DateTimeValue_MonthMultiplicator + day
			}
		}
	}

	presence := false
	if fractionalSecs != 0 {
		presence = true
	}

	av := NewAbstractValue(ValueTypeDateTime)
	dtv := &DateTimeValue{
		AbstractValue:           av,
		kind:                    kind,
		time:                    time,
		year:                    year,
		monthDay:          md,
		fractionalSecs:          fractionalSecs,
		presenceFractionalSecs:  presence,
		presenceTimezone:        presenceTimezone,
		timezone:                timezone,
		normalized:              normalized,
		normalizedDateTimeValue: nil,
		sizeFractionalSecs:      -1,
	}
	av.Value = dtv
	return dtv
}

func (dtv *DateTimeValue) ToTime() (*time.Time, error) {
	t := time.Time{}

	switch dtv.kind {
	case DateTimeGYear:
		t = time.Date(dtv.year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), nil)
	case DateTimeGYearMonth, DateTimeDate:
		t = time.Date(dtv.year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), nil)
		t = dateTimeSetMonthDay(dtv.monthDay, t)
	case DateTimeDateTime:
		t = time.Date(dtv.year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), nil)
		t = dateTimeSetMonthDay(dtv.monthDay, t)
		t = dateTimeSetTime(dtv.time, t)
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), dtv.fractionalSecs/1_000_000, nil)
	case DateTimeGMonth, DateTimeGMonthDay, DateTimeGDay:
		t = dateTimeSetMonthDay(dtv.monthDay, t)
	case DateTimeTime:
		t = dateTimeSetTime(dtv.time, t)
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), dtv.fractionalSecs/1_000_000, nil)
	default:
		return nil, NewError(ErrUnexpected, fmt.Sprintf("unsupported date time type: %d", dtv.kind))
	}
	t = dateTimeSetTimezone(dtv.timezone, t)

	return &t, nil
}

func (dtv *DateTimeValue) GetCharactersLength() (int, error) {
	if dtv.sLen == -1 {
		switch dtv.kind {
		case DateTimeGYear: // Year, [Time-Zone]
			if dtv.year < 0 {
				dtv.sLen = 5
			} else {
				dtv.sLen = 4
			}
		case DateTimeGYearMonth: // Year, MonthDay, [TimeZone]
			if dtv.year < 0 {
				dtv.sLen = 5
			} else {
				dtv.sLen = 4
			}
			dtv.sLen += 3
		case DateTimeDate: // Year, MonthDay, [TimeZone]
			if dtv.year < 0 {
				dtv.sLen = 5
			} else {
				dtv.sLen = 4
			}
			dtv.sLen += 6
		case DateTimeDateTime: // Year, MonthDay, Time, [FractionalSecs], [TimeZone]
			// e.g. "0001-01-01T00:00:00.111+00:33";
			if dtv.fractionalSecs == 0 {
				dtv.sizeFractionalSecs = 0
			} else {
				dtv.sizeFractionalSecs = len(strconv.Itoa(dtv.fractionalSecs)) + 1
			}
			if dtv.year < 0 {
				dtv.sLen = 5
			} else {
				dtv.sLen = 4
			}
			dtv.sLen += 6 + 9 + dtv.sizeFractionalSecs
		case DateTimeGMonth: // MonthDay, [TimeZone]
			dtv.sLen = 1 + 3
		case DateTimeGMonthDay: // MonthDay, [TimeZone]
			dtv.sLen = 1 + 6
		case DateTimeGDay: // MonthDay, [TimeZone]
			dtv.sLen = 3 + 2
		case DateTimeTime: // Time, [FractionalSecs], [TimeZone]
			if dtv.fractionalSecs == 0 {
				dtv.sizeFractionalSecs = 0
			} else {
				dtv.sizeFractionalSecs = len(strconv.Itoa(dtv.fractionalSecs)) + 1
			}
			dtv.sLen = 8 + dtv.sizeFractionalSecs
		default:
			return -1, NewError(ErrUnexpected, fmt.Sprintf("unsupported date time kind: %d", dtv.kind))
		}

		// [TimeZone]
		if dtv.presenceTimezone {
			if dtv.timezone == 0 {
				dtv.sLen += 1
			} else {
				dtv.sLen += 6
			}
		}
	}

	return dtv.sLen, nil
}

func (dtv *DateTimeValue) FillCharactersBuffer(buffer []rune, offset int) error {
	switch dtv.kind {
	case DateTimeGYear: // Year, [Time-Zone]
		dateTimeAppendYear(buffer, &offset, dtv.year)
	case DateTimeGYearMonth: // Year, MonthDay, [TimeZone]
		dateTimeAppendYear(buffer, &offset, dtv.year)
		dateTimeAppendMonth(buffer, &offset, dtv.monthDay)
	case DateTimeDate: // Year, MonthDay, [TimeZone]
		dateTimeAppendYear(buffer, &offset, dtv.year)
		dateTimeAppendMonth(buffer, &offset, dtv.monthDay)
	case DateTimeDateTime: // Year, MonthDay, Time, [FractionalSecs], [TimeZone]
		// e.g. "0001-01-01T00:00:00.111+00:33";
		dateTimeAppendYear(buffer, &offset, dtv.year)
		dateTimeAppendMonth(buffer, &offset, dtv.monthDay)
		buffer[offset] = 'T'
		offset++
		dateTimeAppendTime(buffer, &offset, dtv.time)
		dateTimeAppendFractionalSeconds(buffer, &offset, dtv.fractionalSecs, dtv.sizeFractionalSecs-1)
	case DateTimeGMonth: // MonthDay, [TimeZone]
		buffer[offset] = '-'
		offset++
		dateTimeAppendMonth(buffer, &offset, dtv.monthDay)
	case DateTimeGMonthDay: // MonthDay, [TimeZone]
		buffer[offset] = '-'
		offset++
		dateTimeAppendMonthDay(buffer, &offset, dtv.monthDay)
	case DateTimeGDay: // MonthDay, [TimeZone]
		buffer[offset] = '-'
		offset++
		buffer[offset] = '-'
		offset++
		buffer[offset] = '-'
		offset++
		dateTimeAppendDay(buffer, &offset, dtv.monthDay)
	case DateTimeTime: // Time, [FractionalSecs], [TimeZone]
		dateTimeAppendTime(buffer, &offset, dtv.time)
		dateTimeAppendFractionalSeconds(buffer, &offset, dtv.fractionalSecs, dtv.sizeFractionalSecs-1)
	default:
		return NewError(ErrUnexpected, fmt.Sprintf("unsupported date time type: %d", dtv.kind))
	}

	// [TimeZone]
	if dtv.presenceTimezone {
		dateTimeAppendTimezone(buffer, &offset, dtv.timezone)
	}

	return nil
}

// floorDivMod implements the "fQuotient"/"modulo" pair from the W3C XML
// Schema appendix on adding durations to dateTimes: the floored quotient
// and remainder of a/b. Every call site in doNormalize needs both, so they
// come back together instead of as two separate lookups.
func floorDivMod(a, b int) (quotient, remainder int) {
	quotient = int(math.Floor(float64(a) / float64(b)))
	remainder = a - quotient*b
	return
}

// floorDivModRange is the same pair shifted into the [low, high) range,
// used for the month-carry step (1..12 inclusive, range width 12).
func floorDivModRange(a, low, high int) (quotient, remainder int) {
	quotient, remainder = floorDivMod(a-low, high-low)
	return quotient, remainder + low
}

// maxDayInMonth returns the last valid day number for year/month under the
// proleptic Gregorian calendar's leap-year rule.
func maxDayInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		_, leapCheck400 := floorDivMod(year, 400)
		_, leapCheck100 := floorDivMod(year, 100)
		_, leapCheck4 := floorDivMod(year, 4)
		if month == 2 && (leapCheck400 == 0 || (leapCheck100 != 0 && leapCheck4 == 0)) {
			return 29
		}
		return 28
	}
}

func (dtv *DateTimeValue) Normalize() *DateTimeValue {
	if dtv.normalized {
		return dtv
	}
	if dtv.normalizedDateTimeValue == nil {
		dtv.normalizedDateTimeValue = dtv.doNormalize()
	}

	return dtv.normalizedDateTimeValue
}

func (dtv *DateTimeValue) doNormalize() *DateTimeValue {
	// year & month & day
	year := dtv.year
	month := dtv.monthDay / DateTimeValue_MonthMultiplicator
	day := dtv.monthDay - (month * DateTimeValue_MonthMultiplicator)
	// time
	hour := dtv.time / DateTimeValue_SecondsInHour
	time := dtv.time
	time -= hour * DateTimeValue_SecondsInHour
	minutes := time / DateTimeValue_SecondsInMinute
	seconds := time - minutes*DateTimeValue_SecondsInMinute

	// start Algorithm with not touching seconds to support leap-seconds
	// https://www.w3.org/TR/2004/REC-xmlschema-2-20041028/#adding-durations-to-dateTimes
	// if(seconds > 59) {
	// seconds -= 60; // remove one minute
	// minutes++; // adds one minute
	// }
	// if(minutes > 59) {
	// minutes -= 60; // remove an hour
	// hour++; // add one hour
	// }

	// timezone, per default 'Z'
	tzMinutes := 0
	tzHours := 0
	if dtv.presenceTimezone && dtv.timezone != 0 {
		tz := dtv.timezone // +/-
		// hours
		tzHours = tz / 64
		// minutes
		tzMinutes = tz - (tzHours * 64)
	}

	negate := -1

	// Minutes tmp := S[minute] + D[minute] + carry E[minute] :=
	// modulo(tmp, 60) carry := fQuotient(tmp, 60)
	tmp := minutes + negate*tzMinutes
	carry, minutes := floorDivMod(tmp, 60)

	// Hours tmp := S[hour] + D[hour] + carry E[hour] := modulo(tmp, 24)
	// carry := fQuotient(tmp, 24)
	tmp = hour + negate*tzHours + carry
	carry, hour = floorDivMod(tmp, 24)

	// Days
	var tempDays int

	if day > maxDayInMonth(year, month) { // if S[day] > maximumDayInMonthFor(E[year], E[month])
		tempDays = maxDayInMonth(year, month)
	} else if day < 1 { // else if S[day] < 1
		tempDays = 1
	} else {
		tempDays = day
	}

	// E[day] := tempDays + D[day] + carry
	day = tempDays + carry

	for {
		if day < 1 {
			day = day + maxDayInMonth(year, month-1)
			carry = -1
		} else if day > maxDayInMonth(year, month) {
			day = day - maxDayInMonth(year, month)
			carry = 1
		} else {
			break
		}
		tmp = month + carry
		carry, month = floorDivModRange(tmp, 1, 13)
		year = year + carry
	}

	// create new DateTimeValue
	md := month*32 + day              // Month * 32 + Day
	time = ((hour*64)+minutes)*64 + seconds // ((Hour * 64) + Minutes) * 64 + seconds

	presenceTimezone := dtv.presenceTimezone
	timezone := 0

	return NewDateTimeValueWithNormalized(dtv.kind, year, md, time, dtv.fractionalSecs, presenceTimezone, timezone, true)
}

func (dtv *DateTimeValue) equals(o *DateTimeValue) bool {
	if o == nil {
		return false
	}
	ret := true
	if dtv.kind == o.kind && dtv.year == o.year && dtv.monthDay == o.monthDay && dtv.time == o.time {
		if dtv.presenceFractionalSecs == o.presenceFractionalSecs {
			if dtv.fractionalSecs != o.fractionalSecs {
				ret = false
			}
		}
		if ret && dtv.presenceTimezone == o.presenceTimezone {
			if dtv.timezone != o.timezone {
				ret = false
			}
		}
	} else {
		ret = false
	}

	if ret {
		// easy match
		return ret
	} else {
		// normalize both (if not already)
		if dtv.normalized && o.normalized {
			// not equal
		} else {
			tn := dtv.Normalize()
			on := o.Normalize()

			ret = tn.equals(on)
		}
	}

	return ret
}

func (dtv *DateTimeValue) Equals(o Value) bool {
	if o == nil {
		return false
	}
	oi, ok := o.(*DateTimeValue)
	if ok {
		return dtv.equals(oi)
	} else {
		s, err := o.ToString()
		if err != nil {
			return false
		}
		bv, err := DateTimeParse(s, dtv.kind)
		if err != nil {
			return false
		}
		if bv != nil {
			return dtv.equals(bv)
		} else {
			return false
		}
	}
}

