// Package view renders the routes of contacts-cli to the terminal.
//
// Each route of the navigator has one view. Views read their input from
// the navigation event (query, path variables, form) and call the contact
// service; they never touch the session directly.
package view
