package apperr

// Body renders the client-facing JSON for an error. Underlying causes are never included,
// and StoreUnavailable always renders the same generic message.
func Body(err error) map[string]any {
	e, ok := As(err)
	if !ok || e.Kind == StoreUnavailable {
		return map[string]any{
			"error":   string(StoreUnavailable),
			"message": "Internal server error",
		}
	}

	body := map[string]any{
		"error":   string(e.Kind),
		"message": e.Detail,
	}
	switch e.Kind {
	case PermissionDenied:
		body["requiredPermission"] = e.Permission
	case RoleMismatch:
		body["requiredRole"] = e.Expected
	case ReferentialConflict:
		body["count"] = e.Count
	case DuplicateKey:
		body["field"] = e.Field
	}
	return body
}
