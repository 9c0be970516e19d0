// Provides the filesystem locations bifrost reads and writes.
//
// Two families of paths exist. Per-user state that only bifrost touches
// (the load ledger) follows XDG conventions on Linux and platform-native
// conventions elsewhere. The support tree holding the container build
// definition lives under the user's home directory, in ~/.bifrost, where
// users are expected to find and edit it.
package paths
