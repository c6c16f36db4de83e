package utils

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

func TempTableName() string {
	return fmt.Sprintf("debezium_snapshot_%d", 10_000+rand.Int32N(10_000))
}

func CheckDifference(name, expected, actual string) bool {
	if expected == actual {
		return false
	}
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")
	fmt.Println("--------------------------------------------------------------------------------")
	for i := range max(len(expectedLines), len(actualLines)) {
		if i < len(expectedLines) {
			if i < len(actualLines) {
				if expectedLines[i] == actualLines[i] {
					fmt.Println(expectedLines[i])
				} else {
					fmt.Println("E" + expectedLines[i])
					fmt.Println("A" + actualLines[i])
				}
			} else {
				fmt.Println("E" + expectedLines[i])
			}
		} else {
			fmt.Println("A" + actualLines[i])
		}
	}
	fmt.Println("--------------------------------------------------------------------------------")
	return true
}
