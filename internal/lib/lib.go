// Package lib groups supporting libraries that sit outside the
// handler/service/repository layers: background notification jobs, the
// Resend e-mail client and small utilities.
package lib
