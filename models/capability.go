package models

// CapabilityModerate lets a user see hidden group activity.
const CapabilityModerate = "bp_moderate"

// RoleModerator is the role seeded with CapabilityModerate.
const RoleModerator = "moderator"
