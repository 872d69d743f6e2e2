package bookstore

// Report writes one descriptive log line for o. Success goes to info, NotFound to
// warn, and everything else to error.
func Report(log Logger, o Outcome) {
	if log == nil {
		return
	}

	fields := map[string]any{
		"op":     string(o.Op),
		"kind":   o.Kind.String(),
		"method": o.Method,
		"url":    o.Target,
	}
	desc := o.Op.Description()

	switch o.Kind {
	case Success:
		fields["status"] = o.StatusCode
		fields["payload"] = o.Snippet()
		if o.DecodeErr != nil {
			fields["decode_error"] = o.DecodeErr.Error()
			log.WarnObj(desc+" succeeded with undecodable payload", "outcome", fields)
			return
		}
		log.InfoObj(desc+" succeeded", "outcome", fields)
	case NotFound:
		fields["status"] = o.StatusCode
		fields["body"] = o.Snippet()
		log.WarnObj(desc+" not found", "outcome", fields)
	case UnexpectedStatus:
		fields["status"] = o.StatusCode
		fields["body"] = o.Snippet()
		log.ErrorObj(desc+" failed with unexpected status", "outcome", fields)
	case TransportError:
		if o.Err != nil {
			fields["error"] = o.Err.Error()
		}
		log.ErrorObj(desc+" failed: no response received", "outcome", fields)
	}
}
