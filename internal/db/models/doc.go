// Package models contains database model definitions.
//
// Most tables belong to the mobile app and are shared with the BaaS database;
// admins is owned by this service.
package models
