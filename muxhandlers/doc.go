// Package muxhandlers provides middleware for the Zephyrus router.
//
// All middleware returns a mux.MiddlewareFunc and runs for matched routes
// only, so the route pattern is available through mux.CurrentRoute:
//
//	router.Use(
//		muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{Logger: logger}),
//		muxhandlers.RecoveryMiddleware(logger),
//		muxhandlers.AccessLogMiddleware(logger),
//	)
package muxhandlers
