// Package main provides the entry point of HabitAdmin, the back-office
// service of a habit tracking app. It serves a JSON admin API with Fiber
// for managing app users, admin staff, challenges, announcements,
// subscription plans and key/value app settings, and exposes a cron
// endpoint that creates the next challenge automatically.
package main
