package redis

import "fmt"

const ns = "cinebook:v1"

func KeyShowAvailability(showID int64) string {
	return fmt.Sprintf("%s:show:%d:availability", ns, showID)
}

func KeyShowList() string {
	return ns + ":shows:upcoming"
}

func KeyMovieList() string {
	return ns + ":movies:all"
}

func KeyIdemBooking(userID, idemKey string) string {
	return fmt.Sprintf("%s:idem:bookings:%s:%s", ns, userID, idemKey)
}

func ChannelShowsChanged() string {
	return ns + ":shows:changed"
}
