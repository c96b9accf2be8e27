package main

// Version is the envault release version.
const Version = "0.1.0"
