package common

// TwilioSignatureHeaderName carries the provider's HMAC-SHA1 request signature.
const TwilioSignatureHeaderName = "X-Twilio-Signature"

// TimeLayoutDay is used for chart object keys and log fields.
const TimeLayoutDay = "2006-01-02"
