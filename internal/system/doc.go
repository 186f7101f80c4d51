// Package system is the facade the agent and the query server read host
// metrics through. A System holds one cached handle per rarely-changing
// category and one sampler per rate category; copies made with Clone share
// them, so a category is parsed once no matter how many goroutines ask.
package system
