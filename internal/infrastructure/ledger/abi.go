package ledger

// Method and event surfaces of the three record-domain contracts. Only the
// parts the client calls are declared; the contracts themselves carry more.

const projectsABI = `[
  {"type":"function","name":"createProject","stateMutability":"nonpayable","inputs":[
    {"name":"name","type":"string"},
    {"name":"location","type":"string"},
    {"name":"totalBudget","type":"uint256"},
    {"name":"startDate","type":"uint256"},
    {"name":"plannedEndDate","type":"uint256"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"advancePhase","stateMutability":"nonpayable","inputs":[
    {"name":"id","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getProject","stateMutability":"view","inputs":[
    {"name":"id","type":"uint256"}],
   "outputs":[
    {"name":"id","type":"uint256"},
    {"name":"name","type":"string"},
    {"name":"location","type":"string"},
    {"name":"totalBudget","type":"uint256"},
    {"name":"availableFunds","type":"uint256"},
    {"name":"startDate","type":"uint256"},
    {"name":"plannedEndDate","type":"uint256"},
    {"name":"owner","type":"address"},
    {"name":"active","type":"bool"},
    {"name":"phase","type":"uint8"}]},
  {"type":"function","name":"projectIdsByOwner","stateMutability":"view","inputs":[
    {"name":"owner","type":"address"}],
   "outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"event","name":"ProjectCreated","anonymous":false,"inputs":[
    {"name":"id","type":"uint256","indexed":true},
    {"name":"owner","type":"address","indexed":true}]}
]`

const certificationsABI = `[
  {"type":"function","name":"issueCertification","stateMutability":"nonpayable","inputs":[
    {"name":"name","type":"string"},
    {"name":"description","type":"string"},
    {"name":"recipient","type":"address"},
    {"name":"expiresAt","type":"uint256"},
    {"name":"documentCid","type":"string"},
    {"name":"kind","type":"uint8"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"revokeCertification","stateMutability":"nonpayable","inputs":[
    {"name":"id","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"verifyCertification","stateMutability":"view","inputs":[
    {"name":"id","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getCertification","stateMutability":"view","inputs":[
    {"name":"id","type":"uint256"}],
   "outputs":[
    {"name":"id","type":"uint256"},
    {"name":"name","type":"string"},
    {"name":"description","type":"string"},
    {"name":"issuer","type":"address"},
    {"name":"recipient","type":"address"},
    {"name":"issuedAt","type":"uint256"},
    {"name":"expiresAt","type":"uint256"},
    {"name":"documentCid","type":"string"},
    {"name":"kind","type":"uint8"},
    {"name":"revoked","type":"bool"}]},
  {"type":"function","name":"certificationIdsByRecipient","stateMutability":"view","inputs":[
    {"name":"recipient","type":"address"}],
   "outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"certificationIdsByIssuer","stateMutability":"view","inputs":[
    {"name":"issuer","type":"address"}],
   "outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"centralAuthority","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"event","name":"CertificationIssued","anonymous":false,"inputs":[
    {"name":"id","type":"uint256","indexed":true},
    {"name":"issuer","type":"address","indexed":true},
    {"name":"recipient","type":"address","indexed":true}]}
]`

const tendersABI = `[
  {"type":"function","name":"createTender","stateMutability":"nonpayable","inputs":[
    {"name":"name","type":"string"},
    {"name":"description","type":"string"},
    {"name":"maxBudget","type":"uint256"},
    {"name":"deadline","type":"uint256"},
    {"name":"documentCid","type":"string"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"submitBid","stateMutability":"nonpayable","inputs":[
    {"name":"tenderId","type":"uint256"},
    {"name":"amount","type":"uint256"},
    {"name":"estimatedDays","type":"uint256"},
    {"name":"proposalCid","type":"string"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"awardTender","stateMutability":"nonpayable","inputs":[
    {"name":"tenderId","type":"uint256"},
    {"name":"bidId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"closeTender","stateMutability":"nonpayable","inputs":[
    {"name":"tenderId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getTender","stateMutability":"view","inputs":[
    {"name":"id","type":"uint256"}],
   "outputs":[
    {"name":"id","type":"uint256"},
    {"name":"name","type":"string"},
    {"name":"description","type":"string"},
    {"name":"creator","type":"address"},
    {"name":"maxBudget","type":"uint256"},
    {"name":"createdAt","type":"uint256"},
    {"name":"deadline","type":"uint256"},
    {"name":"documentCid","type":"string"},
    {"name":"open","type":"bool"},
    {"name":"awarded","type":"bool"},
    {"name":"contractor","type":"address"},
    {"name":"winningBid","type":"uint256"}]},
  {"type":"function","name":"getBid","stateMutability":"view","inputs":[
    {"name":"id","type":"uint256"}],
   "outputs":[
    {"name":"id","type":"uint256"},
    {"name":"tenderId","type":"uint256"},
    {"name":"bidder","type":"address"},
    {"name":"amount","type":"uint256"},
    {"name":"estimatedDays","type":"uint256"},
    {"name":"proposalCid","type":"string"},
    {"name":"selected","type":"bool"}]},
  {"type":"function","name":"tenderIdsByCreator","stateMutability":"view","inputs":[
    {"name":"creator","type":"address"}],
   "outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"bidIdsByBidder","stateMutability":"view","inputs":[
    {"name":"bidder","type":"address"}],
   "outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"bidIdsForTender","stateMutability":"view","inputs":[
    {"name":"tenderId","type":"uint256"}],
   "outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"event","name":"TenderCreated","anonymous":false,"inputs":[
    {"name":"id","type":"uint256","indexed":true},
    {"name":"creator","type":"address","indexed":true}]}
]`
