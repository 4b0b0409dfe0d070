package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabCode(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "Lab suffix", raw: "Networking Lab", expected: "NETWORKING-LAB"},
		{name: "Lab prefix with number", raw: "Lab 3", expected: "LAB-3"},
		{name: "Computing lab collapses", raw: "Computing Lab 2", expected: "LAB-2"},
		{name: "Computing lab in the middle", raw: "Advanced Computing Lab 1", expected: "ADVANCED-LAB-1"},
		{name: "No lab token", raw: "Research Centre", expected: "LAB-RESEARCH-CENTRE"},
		{name: "Lab inside a word is not a token", raw: "Collaborative Robotics", expected: "LAB-COLLABORATIVE-ROBOTICS"},
		{name: "Extra whitespace", raw: "  Virtual   Reality\tLab ", expected: "VIRTUAL-REALITY-LAB"},
		{name: "Already a code", raw: "lab-7", expected: "LAB-7"},
		{name: "Dangling dashes", raw: "- IoT Lab -", expected: "IOT-LAB"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, LabCode(tc.raw))
		})
	}
}

func TestLabCode_Deterministic(t *testing.T) {
	assert.Equal(t, LabCode("Networking Lab"), LabCode("networking   lab"))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "LAB-101", NormalizeCode(" lab 101 "))
	assert.Equal(t, "CSE-01", NormalizeCode("cse-01"))
}
