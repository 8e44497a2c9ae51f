package zooredis

import "fmt"

const (
	fieldData    = "data"
	fieldVersion = "version"
	fieldTitle   = "title"
)

func redisKeyAnimal(prefix, id string) string {
	return fmt.Sprintf("%sanimals:%s", prefix, id)
}

func redisKeyRoom(prefix, id string) string {
	return fmt.Sprintf("%srooms:%s", prefix, id)
}

func redisKeyRoomTitles(prefix string) string {
	return prefix + "rooms_titles"
}

func redisKeyAnimalPattern(prefix string) string {
	return prefix + "animals:*"
}
