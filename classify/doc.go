// Package classify turns arbitrary failures into a small fixed set of
// user-facing categories with a display message.
//
// HTTP statuses win over everything else: 401 is Authentication, 403
// Authorization, 422 Validation, other 4xx Client and 5xx Server. The
// message is the server's own (sanitized) when one was sent, else the
// caller's fallback. Transport failures get a fixed localized message.
// Anything else keeps its own message, and nil input yields Unknown with the
// fallback.
//
//	resp, err := http.Get(url)
//	if err == nil {
//		err = classify.FromResponse(resp)
//	}
//	if err != nil {
//		ce := classifier.Classify(err, "Could not load donors", classify.WithContext("donors.list"))
//		return ce
//	}
//
// Classification never fails. Side effects (logging, the notifier, the
// authentication redirect, metrics) are configured on the Classifier and can
// be suppressed per call with WithoutLog and WithoutNotify.
package classify
