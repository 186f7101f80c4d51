package sampler

import (
	"log"
	"os"
	"time"
)

func wait(d time.Duration) time.Time {
	time.Sleep(d)               // want "found usage of time.Sleep, wait on an injected clock.Clock instead"
	t := <-time.After(d)        // want "found usage of time.After, wait on an injected clock.Clock instead"
	ticker := time.NewTicker(d) // want "found usage of time.NewTicker, wait on an injected clock.Clock instead"
	ticker.Stop()
	return t.Add(time.Since(time.Now()))
}

func fail() {
	panic("capture failed") // want "found usage of panic"
}

func stop() {
	log.Fatal("stopping") // want "found usage of log.Fatal outside of main function"
	os.Exit(1)            // want "found usage of os.Exit outside of main function"
}
