package internal

// Version of this repository; bumped as part of the release process.
const Version = "1.2.0"
