// Package applog centralizes the plain-log style the rest of the
// service uses, so call sites don't sprinkle log.Printf directly.
package applog

import "log"

func Infof(format string, args ...interface{}) {
	log.Printf("[info] "+format, args...)
}

func Errorf(format string, args ...interface{}) {
	log.Printf("[error] "+format, args...)
}

func Warnf(format string, args ...interface{}) {
	log.Printf("[warn] "+format, args...)
}
