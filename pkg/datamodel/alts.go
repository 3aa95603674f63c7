package datamodel

// AltPolicy controls whether a field may be edited in non-primary
// alternatives.
type AltPolicy int

const (
	// AltPolicyAlwaysEditable fields can be edited in every alternative.
	AltPolicyAlwaysEditable AltPolicy = iota
	// AltPolicyPrimaryOnly fields are shared by all alternatives and may only
	// be edited on the primary one.
	AltPolicyPrimaryOnly
)

// AltPolicyFromFlag maps the backend's nullable alts_enabled flag. Only an
// explicit false restricts editing to the primary alternative.
func AltPolicyFromFlag(altsEnabled *bool) AltPolicy {
	if altsEnabled != nil && !*altsEnabled {
		return AltPolicyPrimaryOnly
	}
	return AltPolicyAlwaysEditable
}

// Editable reports whether a field with this policy can be edited while the
// record is open in the given alternative.
func (p AltPolicy) Editable(isPrimaryAlt bool) bool {
	switch p {
	case AltPolicyPrimaryOnly:
		return isPrimaryAlt
	default:
		return true
	}
}

func (p AltPolicy) String() string {
	switch p {
	case AltPolicyPrimaryOnly:
		return "primary-only"
	default:
		return "always-editable"
	}
}
